package scheduling

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ── Form submission ──

// Slot one task row of a selected day; Entrance/Exit are hour indices and
// are ignored for fixed tasks.
type Slot struct {
	Task     int
	Entrance int
	Exit     int
}

// DaySelection a ticked day and its task rows
type DaySelection struct {
	Day   int
	Slots []Slot
}

// WeekSelection selected days of one week window
type WeekSelection struct {
	Days []DaySelection
}

// Submission request-scoped input of the shift form
type Submission struct {
	CardID  int
	Current WeekSelection
	Next    WeekSelection
}

type weekEntry struct {
	week Week
	sel  WeekSelection
}

// weeks both windows, current first
func (s *Submission) weeks() [2]weekEntry {
	return [2]weekEntry{
		{week: CurrentWeek, sel: s.Current},
		{week: NextWeek, sel: s.Next},
	}
}

// ── Validation errors ──

// ValidationKind reason an hour range is rejected
type ValidationKind int

const (
	EqualHours ValidationKind = iota + 1
	EntranceAfterExit
)

func (k ValidationKind) String() string {
	switch k {
	case EqualHours:
		return "equal_hours"
	case EntranceAfterExit:
		return "entrance_after_exit"
	default:
		return "unknown"
	}
}

// ValidationError first offending hour pair of a submission
type ValidationError struct {
	Week     Week
	Day      int
	Slot     int
	Kind     ValidationKind
	Entrance string
	Exit     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s week day %d slot %d: %s (%s, %s)",
		e.Week, e.Day, e.Slot, e.Kind, e.Entrance, e.Exit)
}

// Message Italian text shown next to the offending week window
func (e *ValidationError) Message() string {
	var text string
	switch e.Kind {
	case EqualHours:
		text = fmt.Sprintf("L'ora di entrata %q è uguale all'ora di uscita %q", e.Entrance, e.Exit)
	default:
		text = fmt.Sprintf("L'ora di entrata %q è maggiore dell'ora di uscita %q", e.Entrance, e.Exit)
	}
	return e.Week.Label() + ": " + text
}

// ── Builder ──

// ResolvedDay a selected day whose calendar date is known
type ResolvedDay struct {
	Week      Week
	Date      Date
	Selection DaySelection
}

// Builder turns form submissions into the set of new shifts to store.
// It is pure computation: no I/O, no shared mutable state.
type Builder struct {
	cal     *Calendar
	catalog *Catalog
	logger  *zap.Logger
}

// NewBuilder creates a Builder; logger may be nil
func NewBuilder(cal *Calendar, catalog *Catalog, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cal: cal, catalog: catalog, logger: logger}
}

// Catalog task vocabulary used by the builder
func (b *Builder) Catalog() *Catalog { return b.catalog }

// Calendar week-window calculator used by the builder
func (b *Builder) Calendar() *Calendar { return b.cal }

// Validate checks every (day, slot) hour pair, current week first, days
// and slots in ascending order, and returns the first offending one.
// Fixed tasks carry their own range and are never rejected.
func (b *Builder) Validate(sub *Submission) error {
	if b.catalog.Mode != VariableTasks {
		return nil
	}

	for _, w := range sub.weeks() {
		for _, day := range sortedDays(w.sel.Days) {
			if day.Day < 0 || day.Day >= WorkDays {
				continue
			}
			for i, slot := range day.Slots {
				if !b.usableSlot(slot) {
					continue
				}
				kind := compareHours(slot.Entrance, slot.Exit)
				if kind == 0 {
					continue
				}
				return &ValidationError{
					Week:     w.week,
					Day:      day.Day,
					Slot:     i,
					Kind:     kind,
					Entrance: b.catalog.Hours[slot.Entrance],
					Exit:     b.catalog.Hours[slot.Exit],
				}
			}
		}
	}
	return nil
}

func compareHours(entrance, exit int) ValidationKind {
	switch {
	case entrance == exit:
		return EqualHours
	case entrance > exit:
		return EntranceAfterExit
	default:
		return 0
	}
}

// usableSlot real task with hour indices inside the table
func (b *Builder) usableSlot(slot Slot) bool {
	if slot.Task == NoTask {
		return false
	}
	if _, ok := b.catalog.Task(slot.Task); !ok {
		return false
	}
	if b.catalog.Mode != VariableTasks {
		return true
	}
	_, okEntrance := b.catalog.Hour(slot.Entrance)
	_, okExit := b.catalog.Hour(slot.Exit)
	return okEntrance && okExit
}

// Resolve maps the selected days of both weeks to calendar dates. Invalid
// day indices, sentinel included, and days already past are skipped.
func (b *Builder) Resolve(sub *Submission) []ResolvedDay {
	today := b.cal.Today()

	var resolved []ResolvedDay
	for _, w := range sub.weeks() {
		for _, day := range sortedDays(w.sel.Days) {
			date, err := b.cal.ResolveDay(w.week, day.Day)
			if err != nil {
				b.logger.Debug("giorno ignorato",
					zap.Int("card_id", sub.CardID),
					zap.String("week", w.week.String()),
					zap.Int("day", day.Day),
					zap.Error(err),
				)
				continue
			}
			if date.Before(today) {
				b.logger.Debug("giorno passato ignorato",
					zap.Int("card_id", sub.CardID),
					zap.String("date", date.ISO()),
				)
				continue
			}
			resolved = append(resolved, ResolvedDay{Week: w.week, Date: date, Selection: day})
		}
	}
	return resolved
}

// BuildCandidates one shift per (day, slot, atomic hour range) or per
// (day, slot) for fixed tasks. Colliding candidates collapse in the set.
func (b *Builder) BuildCandidates(cardID int, resolved []ResolvedDay) ShiftSet {
	candidates := NewShiftSet()
	for _, day := range resolved {
		for _, slot := range day.Selection.Slots {
			if !b.usableSlot(slot) {
				continue
			}

			if b.catalog.Mode != VariableTasks {
				candidates.Add(Shift{
					Date:   day.Date.ISO(),
					Task:   slot.Task,
					CardID: cardID,
				})
				continue
			}

			for _, r := range SplitHourRange(b.catalog.Hours, slot.Entrance, slot.Exit) {
				candidates.Add(Shift{
					Date:         day.Date.ISO(),
					Task:         slot.Task,
					EntranceHour: r.Start,
					ExitHour:     r.End,
					CardID:       cardID,
				})
			}
		}
	}
	return candidates
}

// ExcludeExisting set difference candidates \ persisted
func ExcludeExisting(candidates, persisted ShiftSet) ShiftSet {
	return candidates.Difference(persisted)
}

// CreateShifts validate → resolve → build → exclude. A validation error
// aborts the whole submission; an empty result is a valid outcome.
func (b *Builder) CreateShifts(sub *Submission, persisted ShiftSet) (ShiftSet, error) {
	if sub == nil {
		return ShiftSet{}, errors.New("submission mancante")
	}
	if err := b.Validate(sub); err != nil {
		return ShiftSet{}, err
	}
	resolved := b.Resolve(sub)
	candidates := b.BuildCandidates(sub.CardID, resolved)
	return ExcludeExisting(candidates, persisted), nil
}

// sortedDays copy of days ordered by day index, stable for equal indices
func sortedDays(days []DaySelection) []DaySelection {
	out := slices.Clone(days)
	slices.SortStableFunc(out, func(a, b DaySelection) int { return a.Day - b.Day })
	return out
}
