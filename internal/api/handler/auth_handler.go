package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/config"
	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/service"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

// AuthHandler login, logout and session info
type AuthHandler struct {
	authSvc service.AuthService
	cookie  config.CookieConfig
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService, cookie config.CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "turni_session"
	}
	return &AuthHandler{authSvc: authSvc, cookie: cookie}
}

// VolunteerLogin card id plus surname
// POST /api/v1/auth/login
func (h *AuthHandler) VolunteerLogin(c *gin.Context) {
	var req dto.VolunteerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parametri non validi")
		return
	}

	result, err := h.authSvc.VolunteerLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresIn)
	response.OK(c, result)
}

// AdminLogin card id plus administrator password
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parametri non validi")
		return
	}

	result, err := h.authSvc.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresIn)
	response.OK(c, result)
}

// Logout revokes the session and clears the cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	h.setSessionCookie(c, "", -1)
	response.OK(c, nil)
}

// Me current session
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), claims)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, me)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch mode {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownCard):
		response.Error(c, http.StatusUnauthorized, 11001, err.Error())
	case errors.Is(err, service.ErrVolunteerDisabled):
		response.Error(c, http.StatusForbidden, 11002, err.Error())
	case errors.Is(err, service.ErrUnknownSurname):
		response.Error(c, http.StatusUnauthorized, 11003, err.Error())
	case errors.Is(err, service.ErrSurnameMismatch):
		response.Error(c, http.StatusUnauthorized, 11004, err.Error())
	case errors.Is(err, service.ErrInvalidPassword):
		response.Error(c, http.StatusUnauthorized, 11005, err.Error())
	case errors.Is(err, service.ErrVolunteerNotFound):
		response.NotFound(c, 11006, err.Error())
	default:
		response.InternalError(c)
	}
}
