package handler

import (
	"github.com/Luni-4/volunteers-shifts/config"
	"github.com/Luni-4/volunteers-shifts/internal/service"
)

// Handler aggregate of every handler
type Handler struct {
	Auth   *AuthHandler
	Shift  *ShiftHandler
	Board  *BoardHandler
	Admin  *AdminHandler
	Cookie *CookieHandler
}

// NewHandler creates the aggregate
func NewHandler(cfg *config.Config, svc *service.Service, events Subscriber) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth, cfg.Auth.Cookie),
		Shift:  NewShiftHandler(svc.Shift, svc.Export),
		Board:  NewBoardHandler(svc.Shift, events),
		Admin:  NewAdminHandler(svc.Volunteer, svc.Shift, svc.Export),
		Cookie: NewCookieHandler(cfg.Site, cfg.Auth.Cookie),
	}
}
