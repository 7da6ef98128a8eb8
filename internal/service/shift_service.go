package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Luni-4/volunteers-shifts/internal/dto"
	"github.com/Luni-4/volunteers-shifts/internal/model"
	"github.com/Luni-4/volunteers-shifts/internal/notify"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
)

// ── shift module errors ──

var (
	ErrAlreadySubmitted = errors.New("modulo già inviato")
	ErrFormExpired      = errors.New("modulo scaduto, ricaricare la pagina")
	ErrShiftNotFound    = errors.New("turno non trovato")
)

// ShiftService shift booking
type ShiftService interface {
	// FormState data of the shift form plus a fresh form token
	FormState(ctx context.Context, cardID, rows int) (*dto.ShiftFormResponse, error)
	// Submit stores the new shifts of a submission. A consumed form token
	// yields ErrAlreadySubmitted, an unknown or expired one ErrFormExpired,
	// an invalid hour range a *scheduling.ValidationError.
	Submit(ctx context.Context, sub *scheduling.Submission, formToken string) (*dto.SubmitShiftsResponse, error)
	ListByVolunteer(ctx context.Context, cardID int) ([]dto.ShiftResponse, error)
	DeleteOwn(ctx context.Context, cardID int, id int64) error
	Delete(ctx context.Context, id int64) error
	Board(ctx context.Context, week scheduling.Week, day *int) (*dto.BoardResponse, error)
	// PurgeExpired removes shifts dated before today
	PurgeExpired(ctx context.Context) (int64, error)
	ListAllByVolunteer(ctx context.Context) ([]dto.VolunteerShiftsResponse, error)
	Dump(ctx context.Context) ([]dto.ShiftDumpEntry, error)
}

type shiftService struct {
	repo     *repository.Repository
	builder  *scheduling.Builder
	forms    *FormGuard
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewShiftService creates a ShiftService
func NewShiftService(
	repo *repository.Repository,
	builder *scheduling.Builder,
	forms *FormGuard,
	notifier notify.Notifier,
	logger *zap.Logger,
) ShiftService {
	return &shiftService{
		repo:     repo,
		builder:  builder,
		forms:    forms,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *shiftService) cal() *scheduling.Calendar    { return s.builder.Calendar() }
func (s *shiftService) catalog() *scheduling.Catalog { return s.builder.Catalog() }

// ════════════════════════════════════════════════════════════
// Form
// ════════════════════════════════════════════════════════════

func (s *shiftService) FormState(ctx context.Context, cardID, rows int) (*dto.ShiftFormResponse, error) {
	if rows < 1 {
		rows = 1
	}

	token, err := s.forms.Issue(ctx)
	if err != nil {
		s.logger.Error("emissione token modulo fallita", zap.Error(err))
		return nil, err
	}

	cat := s.catalog()
	resp := &dto.ShiftFormResponse{
		CardID:        cardID,
		Mode:          string(cat.Mode),
		Rows:          rows,
		FormToken:     token,
		Tasks:         taskResponses(cat),
		EntranceHours: hourResponses(cat.EntranceHours()),
		ExitHours:     hourResponses(cat.ExitHours()),
		Current:       windowResponse(s.cal().Window(scheduling.CurrentWeek)),
		Next:          windowResponse(s.cal().Window(scheduling.NextWeek)),
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Submit
// ════════════════════════════════════════════════════════════
//
// validate → consume form token → serializable read/build/insert →
// notify. The token is restored when storage fails so the same form can
// be sent again.

func (s *shiftService) Submit(ctx context.Context, sub *scheduling.Submission, formToken string) (*dto.SubmitShiftsResponse, error) {
	// 1. hour ranges, before the token is spent
	if err := s.builder.Validate(sub); err != nil {
		return nil, err
	}

	// 2. resubmission guard
	found, fresh, err := s.forms.Consume(ctx, formToken)
	if err != nil {
		s.logger.Error("verifica token modulo fallita", zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, ErrFormExpired
	}
	if !fresh {
		return nil, ErrAlreadySubmitted
	}

	// 3. read + build + insert in one transaction
	inserted, err := s.repo.Shift.InsertNew(ctx, sub.CardID, func(persisted scheduling.ShiftSet) (scheduling.ShiftSet, error) {
		return s.builder.CreateShifts(sub, persisted)
	})
	if err != nil {
		if rerr := s.forms.Restore(ctx, formToken); rerr != nil {
			s.logger.Warn("ripristino token modulo fallito", zap.Error(rerr))
		}
		var verr *scheduling.ValidationError
		if !errors.As(err, &verr) {
			s.logger.Error("inserimento turni fallito", zap.Int("card_id", sub.CardID), zap.Error(err))
		}
		return nil, err
	}

	// 4. live board refresh
	if len(inserted) > 0 {
		s.logger.Info("turni prenotati", zap.Int("card_id", sub.CardID), zap.Int("count", len(inserted)))
		s.notifier.Notify(ctx)
	}

	shifts, err := s.ListByVolunteer(ctx, sub.CardID)
	if err != nil {
		return nil, err
	}
	return &dto.SubmitShiftsResponse{Created: len(inserted), Shifts: shifts}, nil
}

// ════════════════════════════════════════════════════════════
// Personal shifts
// ════════════════════════════════════════════════════════════

func (s *shiftService) ListByVolunteer(ctx context.Context, cardID int) ([]dto.ShiftResponse, error) {
	rows, err := s.repo.Shift.ListByCard(ctx, cardID)
	if err != nil {
		s.logger.Error("lettura turni fallita", zap.Int("card_id", cardID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.ShiftResponse, 0, len(rows))
	for i := range rows {
		out = append(out, s.shiftResponse(&rows[i]))
	}
	return out, nil
}

func (s *shiftService) DeleteOwn(ctx context.Context, cardID int, id int64) error {
	n, err := s.repo.Shift.DeleteOwned(ctx, id, cardID)
	if err != nil {
		s.logger.Error("cancellazione turno fallita", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrShiftNotFound
	}
	s.notifier.Notify(ctx)
	return nil
}

func (s *shiftService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Shift.Delete(ctx, id)
	if err != nil {
		s.logger.Error("cancellazione turno fallita", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrShiftNotFound
	}
	s.logger.Info("turno cancellato dall'amministrazione", zap.Int64("id", id))
	s.notifier.Notify(ctx)
	return nil
}

// ════════════════════════════════════════════════════════════
// Board
// ════════════════════════════════════════════════════════════

func (s *shiftService) Board(ctx context.Context, week scheduling.Week, day *int) (*dto.BoardResponse, error) {
	cal := s.cal()
	dayIndex := cal.Today().Weekday()
	if day != nil {
		dayIndex = *day
	}

	date, err := cal.ResolveDay(week, dayIndex)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Shift.ListByDate(ctx, date.Time())
	if err != nil {
		s.logger.Error("lettura tabellone fallita", zap.String("date", date.ISO()), zap.Error(err))
		return nil, err
	}

	byTask := make(map[int][]dto.BoardVolunteer)
	for i := range rows {
		r := &rows[i]
		byTask[r.Task] = append(byTask[r.Task], dto.BoardVolunteer{
			Name:         volunteerName(r),
			EntranceHour: r.EntranceHour,
			ExitHour:     r.ExitHour,
		})
	}

	cat := s.catalog()
	tasks := make([]dto.BoardTask, 0, len(cat.Tasks))
	for _, t := range cat.Tasks {
		volunteers := byTask[t.ID]
		if volunteers == nil {
			volunteers = []dto.BoardVolunteer{}
		}
		tasks = append(tasks, dto.BoardTask{
			Task:       t.ID,
			Name:       t.Name,
			Hours:      t.Hours(),
			Volunteers: volunteers,
		})
	}

	return &dto.BoardResponse{
		Week:    week.String(),
		Day:     dayIndex,
		Date:    date.String(),
		DayName: date.DayName(),
		Windows: []dto.WeekWindowResponse{
			boardWindow(cal, scheduling.CurrentWeek),
			boardWindow(cal, scheduling.NextWeek),
		},
		Tasks: tasks,
	}, nil
}

// boardWindow every working day of the week, past days included
func boardWindow(cal *scheduling.Calendar, week scheduling.Week) dto.WeekWindowResponse {
	monday := cal.Monday(week)
	days := make([]dto.WeekDayResponse, 0, scheduling.WorkDays)
	for d := range monday.UntilSaturday() {
		days = append(days, dto.WeekDayResponse{Index: d.Weekday(), Name: d.DayName(), Date: d.String()})
	}
	return dto.WeekWindowResponse{
		Week:   week.String(),
		Label:  week.Label(),
		Bounds: monday.WeekBoundsText(),
		Days:   days,
	}
}

// ════════════════════════════════════════════════════════════
// Administration
// ════════════════════════════════════════════════════════════

func (s *shiftService) PurgeExpired(ctx context.Context) (int64, error) {
	today := s.cal().Today()
	n, err := s.repo.Shift.DeleteBefore(ctx, today.Time())
	if err != nil {
		s.logger.Error("eliminazione turni scaduti fallita", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("turni scaduti eliminati", zap.Int64("count", n), zap.String("before", today.ISO()))
	}
	return n, nil
}

func (s *shiftService) ListAllByVolunteer(ctx context.Context) ([]dto.VolunteerShiftsResponse, error) {
	if _, err := s.PurgeExpired(ctx); err != nil {
		return nil, err
	}

	rows, err := s.repo.Shift.ListAll(ctx)
	if err != nil {
		s.logger.Error("lettura turni fallita", zap.Error(err))
		return nil, err
	}

	var (
		out   []dto.VolunteerShiftsResponse
		index = make(map[int]int)
	)
	for i := range rows {
		r := &rows[i]
		pos, ok := index[r.CardID]
		if !ok {
			entry := dto.VolunteerShiftsResponse{CardID: r.CardID, Shifts: []dto.ShiftResponse{}}
			if r.Volunteer != nil {
				entry.Name = r.Volunteer.Name
				entry.Surname = r.Volunteer.Surname
				entry.Disabled = r.Volunteer.Disabled
			}
			out = append(out, entry)
			pos = len(out) - 1
			index[r.CardID] = pos
		}
		if out[pos].Disabled {
			continue
		}
		out[pos].Shifts = append(out[pos].Shifts, s.shiftResponse(r))
	}
	if out == nil {
		out = []dto.VolunteerShiftsResponse{}
	}
	return out, nil
}

func (s *shiftService) Dump(ctx context.Context) ([]dto.ShiftDumpEntry, error) {
	rows, err := s.repo.Shift.ListAll(ctx)
	if err != nil {
		s.logger.Error("lettura turni fallita", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ShiftDumpEntry, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		entry := dto.ShiftDumpEntry{
			ID:           r.ID,
			CardID:       r.CardID,
			Date:         model.FormatDate(r.Date),
			Task:         r.Task,
			TaskName:     s.catalog().TaskName(r.Task),
			EntranceHour: r.EntranceHour,
			ExitHour:     r.ExitHour,
		}
		if r.Volunteer != nil {
			entry.Name = r.Volunteer.Name
			entry.Surname = r.Volunteer.Surname
		}
		out = append(out, entry)
	}
	return out, nil
}

// ── conversions ──

func (s *shiftService) shiftResponse(r *model.Shift) dto.ShiftResponse {
	return toShiftResponse(s.catalog(), s.cal().Location(), r)
}

func toShiftResponse(cat *scheduling.Catalog, loc *time.Location, r *model.Shift) dto.ShiftResponse {
	date := scheduling.NewDate(r.Date.Year(), r.Date.Month(), r.Date.Day(), loc)
	return dto.ShiftResponse{
		ID:           r.ID,
		Date:         date.ISO(),
		DateText:     date.String(),
		Day:          date.DayName(),
		Task:         r.Task,
		TaskName:     cat.TaskName(r.Task),
		EntranceHour: r.EntranceHour,
		ExitHour:     r.ExitHour,
		Hours:        shiftHours(cat, r),
	}
}

// shiftHours "08:00 - 09:00": the stored range, else the task's own range
func shiftHours(cat *scheduling.Catalog, r *model.Shift) string {
	if r.EntranceHour != "" {
		return r.EntranceHour + " - " + r.ExitHour
	}
	if t, ok := cat.Task(r.Task); ok {
		return t.Hours()
	}
	return ""
}

func volunteerName(r *model.Shift) string {
	if r.Volunteer == nil {
		return fmt.Sprintf("Tessera %d", r.CardID)
	}
	return r.Volunteer.FullName()
}

func taskResponses(cat *scheduling.Catalog) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(cat.Tasks))
	for _, t := range cat.Tasks {
		out = append(out, dto.TaskResponse{ID: t.ID, Name: t.Name, Hours: t.Hours()})
	}
	return out
}

func hourResponses(opts []scheduling.HourOption) []dto.HourOptionResponse {
	if len(opts) == 0 {
		return nil
	}
	out := make([]dto.HourOptionResponse, 0, len(opts))
	for _, o := range opts {
		out = append(out, dto.HourOptionResponse{Value: o.Value, Label: o.Label})
	}
	return out
}

func windowResponse(w scheduling.WeekWindow) dto.WeekWindowResponse {
	days := make([]dto.WeekDayResponse, 0, len(w.Days))
	for _, d := range w.Days {
		days = append(days, dto.WeekDayResponse{Index: d.Index, Name: d.Name, Date: d.Date.String()})
	}
	return dto.WeekWindowResponse{
		Week:   w.Week.String(),
		Label:  w.Week.Label(),
		Bounds: w.Bounds,
		Days:   days,
	}
}
