package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/config"
	"github.com/Luni-4/volunteers-shifts/internal/api/handler"
	"github.com/Luni-4/volunteers-shifts/internal/api/middleware"
	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
)

// Setup builds the gin engine. limiter may be nil (no login rate limit).
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth middleware.Authenticator,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	loginLimit := middleware.RateLimit(limiter, cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimit, h.Auth.VolunteerLogin)
			auth.POST("/admin/login", loginLimit, h.Auth.AdminLogin)
		}

		v1.GET("/cookie-policy", h.Cookie.Policy)
		v1.PUT("/cookie-policy", h.Cookie.Accept)

		// authenticated
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(auth, cfg.Auth.Cookie.Name))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// board shows names: volunteers and administrators only
			authorized.GET("/board", h.Board.Board)
			authorized.GET("/board/stream", h.Board.Stream)

			// volunteers act on their own card, administrators on any
			volunteer := authorized.Group("/volunteers/:card_id")
			{
				volunteer.GET("/shift-form", h.Shift.Form)
				volunteer.GET("/shifts", h.Shift.List)
				volunteer.POST("/shifts", h.Shift.Submit)
				volunteer.DELETE("/shifts/:id", h.Shift.Delete)
				volunteer.GET("/calendar.ics", h.Shift.Calendar)
			}

			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(jwt.RoleAdmin))
			{
				admin.GET("/volunteers", h.Admin.ListVolunteers)
				admin.POST("/volunteers/refresh", h.Admin.RefreshRoster)
				admin.GET("/shifts", h.Admin.ListShifts)
				admin.GET("/shifts/dump", h.Admin.DumpShifts)
				admin.GET("/shifts/export", h.Admin.ExportShifts)
				admin.POST("/shifts/purge", h.Admin.PurgeShifts)
				admin.DELETE("/shifts/:id", h.Admin.DeleteShift)
			}
		}
	}

	return r
}
