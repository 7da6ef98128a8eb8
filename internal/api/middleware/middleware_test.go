package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/internal/api/handler"
	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	tokens map[string]*jwt.Claims
	seen   string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*jwt.Claims, error) {
	s.seen = token
	if c, ok := s.tokens[token]; ok {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalid
}

func protectedRouter(auth Authenticator, roles ...string) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{SessionAuth(auth, "sessione")}
	if len(roles) > 0 {
		chain = append(chain, RoleAuth(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, "%d", c.GetInt(handler.CardIDKey))
	})
	r.GET("/private", chain...)
	return r
}

func TestSessionAuth(t *testing.T) {
	auth := &stubAuthenticator{tokens: map[string]*jwt.Claims{
		"vol":   {CardID: 5, Role: jwt.RoleVolunteer},
		"admin": {CardID: 1, Role: jwt.RoleAdmin},
	}}
	r := protectedRouter(auth)

	// no credentials
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// cookie
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "sessione", Value: "vol"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Body.String())

	// bearer wins over cookie
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer admin")
	req.AddCookie(&http.Cookie{Name: "sessione", Value: "vol"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "1", w.Body.String())
	assert.Equal(t, "admin", auth.seen)

	// invalid
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer falso")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleAuth(t *testing.T) {
	auth := &stubAuthenticator{tokens: map[string]*jwt.Claims{
		"vol":   {CardID: 5, Role: jwt.RoleVolunteer},
		"admin": {CardID: 1, Role: jwt.RoleAdmin},
	}}
	r := protectedRouter(auth, jwt.RoleAdmin)

	for token, want := range map[string]int{"vol": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}

type stubLimiter struct {
	counts map[string]int
	err    error
}

func (s *stubLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.counts[key]++
	return s.counts[key] <= limit, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &stubLimiter{counts: make(map[string]int)}
	r := gin.New()
	r.POST("/login", RateLimit(limiter, 2, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	limiter.err = errors.New("redis giù")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_NilLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://turni.example.org/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://turni.example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://turni.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://altro.example.org")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/board", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("piccolo")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("decisamente troppo grande")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
