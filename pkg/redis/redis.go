package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/config"
)

// Client wraps go-redis: session revocation, login rate limit, single-use
// form tokens and the refresh pub/sub channel
type Client struct {
	rdb    goredis.UniversalClient
	logger *zap.Logger
}

// NewClient connects and pings Redis
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connessione a Redis fallita: %w", err)
	}

	logger.Info("Redis connesso", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromUniversal wraps an existing go-redis client
func NewFromUniversal(rdb goredis.UniversalClient, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── session revocation ──

const revokedPrefix = "turni:session:revoked:"

// RevokeSession marks a session id as logged out until it would expire anyway
func (c *Client) RevokeSession(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return c.rdb.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a session id was logged out
func (c *Client) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limit ──

// CheckRateLimit fixed-window counter: at most limit hits per window for key
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	var incr *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// ── form tokens ──

const formTokenPrefix = "turni:form:"

// form token values
const (
	formTokenIssued = "issued"
	formTokenUsed   = "used"
)

// IssueFormToken stores a fresh single-use token
func (c *Client) IssueFormToken(ctx context.Context, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, formTokenPrefix+token, formTokenIssued, ttl).Err()
}

// ConsumeFormToken flips an existing token to used, keeping its TTL, and
// reports the previous state. Unknown or expired tokens are not created.
func (c *Client) ConsumeFormToken(ctx context.Context, token string) (found, fresh bool, err error) {
	prev, err := c.rdb.SetArgs(ctx, formTokenPrefix+token, formTokenUsed, goredis.SetArgs{
		Mode:    "XX",
		KeepTTL: true,
		Get:     true,
	}).Result()
	if errors.Is(err, goredis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, prev == formTokenIssued, nil
}

// ── pub/sub ──

// Publish sends payload on channel
func (c *Client) Publish(ctx context.Context, channel, payload string) error {
	return c.rdb.Publish(ctx, channel, payload).Err()
}

// Listen subscribes to channel and waits for the confirmation. Messages
// arrive on the returned channel until the close function is called.
func (c *Client) Listen(ctx context.Context, channel string) (<-chan *goredis.Message, func() error, error) {
	sub := c.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("sottoscrizione a %s fallita: %w", channel, err)
	}
	return sub.Channel(), sub.Close, nil
}

// Ping health check
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}
