package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/internal/api/handler"
	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

// Authenticator verifies session tokens
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// SessionAuth session middleware. The token is read from the session
// cookie, or from "Authorization: Bearer <token>" for API clients.
func SessionAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			response.Unauthorized(c, 10002, "accesso richiesto")
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, 10002, "sessione non valida o scaduta")
			c.Abort()
			return
		}

		c.Set(handler.ClaimsKey, claims)
		c.Set(handler.CardIDKey, claims.CardID)
		c.Set(handler.RoleKey, claims.Role)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RoleAuth allows only the listed roles
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(handler.RoleKey)
		if !exists {
			response.Unauthorized(c, 10002, "accesso richiesto")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "operazione non consentita")
		c.Abort()
	}
}
