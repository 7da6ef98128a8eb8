package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/model"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/internal/roster"
)

// ErrRosterUnavailable no roster source configured
var ErrRosterUnavailable = errors.New("registro volontari non configurato")

// RosterSource remote volunteer roster
type RosterSource interface {
	Configured() bool
	Fetch(ctx context.Context) ([]roster.Entry, error)
}

// VolunteerService volunteer roster
type VolunteerService interface {
	// RefreshRoster downloads the roster and inserts or updates every row
	RefreshRoster(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]dto.VolunteerResponse, int64, error)
}

type volunteerService struct {
	repo   *repository.Repository
	source RosterSource
	logger *zap.Logger
}

// NewVolunteerService creates a VolunteerService
func NewVolunteerService(repo *repository.Repository, source RosterSource, logger *zap.Logger) VolunteerService {
	return &volunteerService{repo: repo, source: source, logger: logger}
}

func (s *volunteerService) RefreshRoster(ctx context.Context) (int, error) {
	if s.source == nil || !s.source.Configured() {
		return 0, ErrRosterUnavailable
	}

	entries, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("download registro volontari fallito", zap.Error(err))
		return 0, err
	}

	// last row wins when the export repeats a card id
	seen := make(map[int]int, len(entries))
	volunteers := make([]model.Volunteer, 0, len(entries))
	for _, e := range entries {
		v := model.Volunteer{
			CardID:     e.CardID,
			Surname:    e.Surname,
			Name:       e.Name,
			FiscalCode: e.FiscalCode,
			Disabled:   e.Disabled,
		}
		if i, ok := seen[e.CardID]; ok {
			volunteers[i] = v
			continue
		}
		seen[e.CardID] = len(volunteers)
		volunteers = append(volunteers, v)
	}

	if _, err := s.repo.Volunteer.Upsert(ctx, volunteers); err != nil {
		s.logger.Error("aggiornamento volontari fallito", zap.Error(err))
		return 0, err
	}

	s.logger.Info("registro volontari aggiornato", zap.Int("volunteers", len(volunteers)))
	return len(volunteers), nil
}

func (s *volunteerService) List(ctx context.Context, offset, limit int) ([]dto.VolunteerResponse, int64, error) {
	rows, total, err := s.repo.Volunteer.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("lettura volontari fallita", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.VolunteerResponse, 0, len(rows))
	for _, v := range rows {
		out = append(out, dto.VolunteerResponse{
			CardID:     v.CardID,
			Name:       v.Name,
			Surname:    v.Surname,
			FiscalCode: v.FiscalCode,
			Disabled:   v.Disabled,
		})
	}
	return out, total, nil
}
