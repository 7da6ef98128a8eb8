package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel Redis channel shared by every replica
const Channel = "turni:refresh"

// Transport the subset of the Redis client used by the bridge
type Transport interface {
	Publish(ctx context.Context, channel, payload string) error
	Listen(ctx context.Context, channel string) (<-chan *goredis.Message, func() error, error)
}

// Bridge forwards refresh signals between replicas over Redis pub/sub.
// Local subscribers are always notified directly; messages a replica sent
// itself are recognised by their origin id and not delivered twice.
type Bridge struct {
	local     *Broadcaster
	transport Transport
	origin    string
	logger    *zap.Logger
}

// NewBridge creates a Bridge around local
func NewBridge(local *Broadcaster, transport Transport, logger *zap.Logger) *Bridge {
	return &Bridge{
		local:     local,
		transport: transport,
		origin:    uuid.NewString(),
		logger:    logger,
	}
}

// Notify implements Notifier. Redis failures are logged and swallowed.
func (b *Bridge) Notify(ctx context.Context) {
	b.local.Publish()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := b.transport.Publish(ctx, Channel, b.origin); err != nil {
		b.logger.Warn("pubblicazione aggiornamento su Redis fallita", zap.Error(err))
	}
}

// Run relays remote refresh signals to local subscribers until ctx is done
func (b *Bridge) Run(ctx context.Context) error {
	msgs, closeFn, err := b.transport.Listen(ctx, Channel)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			b.logger.Debug("chiusura sottoscrizione Redis", zap.Error(err))
		}
	}()

	b.logger.Info("bridge aggiornamenti avviato", zap.String("channel", Channel))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if msg.Payload == b.origin {
				continue
			}
			b.local.Publish()
		}
	}
}
