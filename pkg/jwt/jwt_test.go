package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/Luni-4/volunteers-shifts/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:  "test-secret-key-for-unit-testing-2026",
		SessionTTL: 12 * time.Hour,
	})
}

func TestGenerateAndParseSessionToken(t *testing.T) {
	m := newTestManager()

	token, issued, err := m.GenerateSessionToken(42, RoleVolunteer)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.CardID != 42 {
		t.Errorf("CardID = %d, want 42", claims.CardID)
	}
	if claims.Role != RoleVolunteer || claims.IsAdmin() {
		t.Errorf("Role = %s, want volunteer", claims.Role)
	}
	if claims.Issuer != "turni" {
		t.Errorf("Issuer = %s, want turni", claims.Issuer)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Errorf("JTI = %q, issued %q", claims.ID, issued.ID)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 11*time.Hour || ttl > 13*time.Hour {
		t.Errorf("TTL = %v, want about 12h", ttl)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }

	token, _, err := m.GenerateSessionToken(1, RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	m.now = time.Now
	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, _ := newTestManager().GenerateSessionToken(1, RoleAdmin)

	other := NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-0123456789", SessionTTL: time.Hour})
	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := newTestManager().ParseToken("not.a.token"); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_UnknownRole(t *testing.T) {
	m := newTestManager()
	claims := Claims{
		CardID: 3,
		Role:   "superuser",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "turni",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
