package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/config"
	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

const (
	cookiePolicyName   = "turni_cookie_policy"
	cookiePolicyMaxAge = 365 * 24 * 60 * 60
)

// CookieHandler cookie policy page
type CookieHandler struct {
	site   config.SiteConfig
	cookie config.CookieConfig
}

// NewCookieHandler creates a CookieHandler
func NewCookieHandler(site config.SiteConfig, cookie config.CookieConfig) *CookieHandler {
	return &CookieHandler{site: site, cookie: cookie}
}

// Policy site contacts and whether the policy was accepted
// GET /api/v1/cookie-policy
func (h *CookieHandler) Policy(c *gin.Context) {
	accepted, _ := c.Cookie(cookiePolicyName)
	response.OK(c, dto.CookiePolicyResponse{
		Title:    h.site.Title,
		Email:    h.site.Email,
		Website:  h.site.Website,
		Accepted: accepted == "1",
	})
}

// Accept stores the acceptance cookie
// PUT /api/v1/cookie-policy
func (h *CookieHandler) Accept(c *gin.Context) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(cookiePolicyName, "1", cookiePolicyMaxAge, "/", h.cookie.Domain, h.cookie.Secure, false)
	response.OK(c, dto.CookiePolicyResponse{
		Title:    h.site.Title,
		Email:    h.site.Email,
		Website:  h.site.Website,
		Accepted: true,
	})
}
