package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/internal/roster"
)

type stubRoster struct {
	configured bool
	entries    []roster.Entry
	err        error
}

func (s *stubRoster) Configured() bool { return s.configured }

func (s *stubRoster) Fetch(context.Context) ([]roster.Entry, error) {
	return s.entries, s.err
}

func TestRefreshRoster_UpsertsAndDedupes(t *testing.T) {
	repo, volunteers, _ := newMockRepository(testVolunteers()...)
	src := &stubRoster{configured: true, entries: []roster.Entry{
		{CardID: 1, Surname: "Rossi", Name: "Mario", Disabled: true},
		{CardID: 10, Surname: "Neri", Name: "Giulia", FiscalCode: "NRIGLI80A41H501X"},
		{CardID: 10, Surname: "Neri", Name: "Giulia Maria"},
	}}
	svc := NewVolunteerService(repo, src, zap.NewNop())

	n, err := svc.RefreshRoster(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.True(t, volunteers.volunteers[1].Disabled)
	assert.Equal(t, "Giulia Maria", volunteers.volunteers[10].Name)
	assert.Len(t, volunteers.volunteers, 4)
}

func TestRefreshRoster_NotConfigured(t *testing.T) {
	repo, volunteers, _ := newMockRepository()

	_, err := NewVolunteerService(repo, nil, zap.NewNop()).RefreshRoster(context.Background())
	assert.ErrorIs(t, err, ErrRosterUnavailable)

	_, err = NewVolunteerService(repo, &stubRoster{}, zap.NewNop()).RefreshRoster(context.Background())
	assert.ErrorIs(t, err, ErrRosterUnavailable)
	assert.Zero(t, volunteers.upserts)
}

func TestRefreshRoster_FetchError(t *testing.T) {
	repo, volunteers, _ := newMockRepository()
	boom := errors.New("rete irraggiungibile")
	svc := NewVolunteerService(repo, &stubRoster{configured: true, err: boom}, zap.NewNop())

	_, err := svc.RefreshRoster(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, volunteers.upserts)
}

func TestVolunteerList_Paginates(t *testing.T) {
	repo, _, _ := newMockRepository(testVolunteers()...)
	svc := NewVolunteerService(repo, nil, zap.NewNop())

	page, total, err := svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, 2, page[0].CardID)
}
