package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Luni-4/volunteers-shifts/internal/model"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
)

// ── Mock VolunteerRepository ──

type mockVolunteerRepo struct {
	volunteers map[int]*model.Volunteer
	upserts    int
	err        error
}

func newMockVolunteerRepo(vs ...model.Volunteer) *mockVolunteerRepo {
	m := &mockVolunteerRepo{volunteers: make(map[int]*model.Volunteer)}
	for i := range vs {
		v := vs[i]
		m.volunteers[v.CardID] = &v
	}
	return m
}

func (m *mockVolunteerRepo) GetByCardID(_ context.Context, cardID int) (*model.Volunteer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.volunteers[cardID]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVolunteerRepo) ExistsSurname(_ context.Context, surname string) (bool, error) {
	for _, v := range m.volunteers {
		if v.Surname == surname {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockVolunteerRepo) List(ctx context.Context, offset, limit int) ([]model.Volunteer, int64, error) {
	all, _ := m.ListAll(ctx)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Volunteer{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockVolunteerRepo) ListAll(_ context.Context) ([]model.Volunteer, error) {
	out := make([]model.Volunteer, 0, len(m.volunteers))
	for _, v := range m.volunteers {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	return out, nil
}

func (m *mockVolunteerRepo) Upsert(_ context.Context, vs []model.Volunteer) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.upserts++
	for i := range vs {
		v := vs[i]
		m.volunteers[v.CardID] = &v
	}
	return int64(len(vs)), nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	mu         sync.Mutex
	shifts     []model.Shift
	nextID     int64
	volunteers *mockVolunteerRepo
	insertErr  error
	builds     int
}

func newMockShiftRepo(volunteers *mockVolunteerRepo) *mockShiftRepo {
	return &mockShiftRepo{nextID: 1, volunteers: volunteers}
}

// seed stores a row as if it had been booked earlier
func (m *mockShiftRepo) seed(date string, task int, entrance, exit string, cardID int) int64 {
	d, _ := model.ParseDate(date)
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.shifts = append(m.shifts, model.Shift{
		ID: id, Date: d, Task: task, EntranceHour: entrance, ExitHour: exit, CardID: cardID,
	})
	return id
}

func (m *mockShiftRepo) withVolunteer(s model.Shift) model.Shift {
	if m.volunteers != nil {
		if v, ok := m.volunteers.volunteers[s.CardID]; ok {
			s.Volunteer = v
		}
	}
	return s
}

func (m *mockShiftRepo) sorted(keep func(*model.Shift) bool) []model.Shift {
	out := make([]model.Shift, 0, len(m.shifts))
	for i := range m.shifts {
		if keep(&m.shifts[i]) {
			out = append(out, m.withVolunteer(m.shifts[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CardID != b.CardID {
			return a.CardID < b.CardID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Task != b.Task {
			return a.Task < b.Task
		}
		return strings.Compare(a.EntranceHour, b.EntranceHour) < 0
	})
	return out
}

func (m *mockShiftRepo) ListByCard(_ context.Context, cardID int) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(s *model.Shift) bool { return s.CardID == cardID }), nil
}

func (m *mockShiftRepo) InsertNew(_ context.Context, cardID int, build repository.BuildFunc) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds++
	if m.insertErr != nil {
		return nil, m.insertErr
	}

	persisted := model.ShiftSet(m.sorted(func(s *model.Shift) bool { return s.CardID == cardID }))
	fresh, err := build(persisted)
	if err != nil {
		return nil, err
	}

	var inserted []model.Shift
	for _, k := range fresh.Sorted() {
		row, err := model.ShiftFromKey(k)
		if err != nil {
			return nil, err
		}
		row.ID = m.nextID
		m.nextID++
		m.shifts = append(m.shifts, row)
		inserted = append(inserted, row)
	}
	return inserted, nil
}

func (m *mockShiftRepo) remove(keep func(*model.Shift) bool) int64 {
	var n int64
	out := m.shifts[:0]
	for _, s := range m.shifts {
		if keep(&s) {
			out = append(out, s)
			continue
		}
		n++
	}
	m.shifts = out
	return n
}

func (m *mockShiftRepo) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(func(s *model.Shift) bool { return s.ID != id }), nil
}

func (m *mockShiftRepo) DeleteOwned(_ context.Context, id int64, cardID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(func(s *model.Shift) bool { return s.ID != id || s.CardID != cardID }), nil
}

func (m *mockShiftRepo) DeleteBefore(_ context.Context, date time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := model.FormatDate(date)
	return m.remove(func(s *model.Shift) bool { return model.FormatDate(s.Date) >= cutoff }), nil
}

func (m *mockShiftRepo) ListAll(_ context.Context) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(*model.Shift) bool { return true }), nil
}

func (m *mockShiftRepo) ListByDate(_ context.Context, date time.Time) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := model.FormatDate(date)
	return m.sorted(func(s *model.Shift) bool { return model.FormatDate(s.Date) == day }), nil
}

// ── Mock notifier / session store ──

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) Notify(context.Context) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type mockSessionStore struct {
	revoked map[string]time.Duration
	err     error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{revoked: make(map[string]time.Duration)}
}

func (m *mockSessionStore) RevokeSession(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *mockSessionStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── fixtures ──

func newMockRepository(vs ...model.Volunteer) (*repository.Repository, *mockVolunteerRepo, *mockShiftRepo) {
	vr := newMockVolunteerRepo(vs...)
	sr := newMockShiftRepo(vr)
	return &repository.Repository{Volunteer: vr, Shift: sr}, vr, sr
}
