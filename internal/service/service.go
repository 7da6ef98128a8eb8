package service

import (
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/config"
	"github.com/Luni-4/volunteers-shifts/internal/notify"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
)

// Deps collaborators shared by the services
type Deps struct {
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Builder  *scheduling.Builder
	Sessions SessionStore
	Forms    FormTokenStore
	Notifier notify.Notifier
	Roster   RosterSource
	Logger   *zap.Logger
}

// Service aggregate of every service
type Service struct {
	Auth      AuthService
	Shift     ShiftService
	Volunteer VolunteerService
	Export    ExportService
}

// NewService creates the aggregate
func NewService(cfg *config.Config, d Deps) (*Service, error) {
	auth, err := NewAuthService(cfg, d.Repo, d.JWT, d.Sessions, d.Logger)
	if err != nil {
		return nil, err
	}
	forms := NewFormGuard(d.Forms, cfg.Auth.FormTokenTTL)

	return &Service{
		Auth:      auth,
		Shift:     NewShiftService(d.Repo, d.Builder, forms, d.Notifier, d.Logger),
		Volunteer: NewVolunteerService(d.Repo, d.Roster, d.Logger),
		Export:    NewExportService(d.Repo, d.Builder.Catalog(), d.Builder.Calendar(), cfg.Site.Title, d.Logger),
	}, nil
}
