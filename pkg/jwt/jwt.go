package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Luni-4/volunteers-shifts/config"
)

var (
	ErrTokenExpired = errors.New("sessione scaduta")
	ErrTokenInvalid = errors.New("sessione non valida")
)

const issuer = "turni"

// Session roles
const (
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// Claims session claims carried by the session cookie
type Claims struct {
	CardID int    `json:"card_id"`
	Role   string `json:"role"`
	jwtv5.RegisteredClaims
}

// IsAdmin reports whether the session belongs to an administrator
func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// Manager signs and verifies session tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.SessionTTL,
		now:    time.Now,
	}
}

// TTL session lifetime
func (m *Manager) TTL() time.Duration { return m.ttl }

// GenerateSessionToken signs a session token for cardID with role
func (m *Manager) GenerateSessionToken(cardID int, role string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		CardID: cardID,
		Role:   role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken verifies a session token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer), jwtv5.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Role != RoleVolunteer && claims.Role != RoleAdmin {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
