package scheduling

import (
	"errors"
	"fmt"
	"iter"
	"time"
	_ "time/tzdata"
)

// ── Week-window calculator ──
//
// Every date computation is anchored on "Monday of the week containing X"
// plus a small day offset. Sunday is never bookable: Today() rolls it to
// the following Monday.

// DefaultTimezone civil timezone of the association
const DefaultTimezone = "Europe/Rome"

const (
	// WorkDays Monday..Saturday
	WorkDays = 6
	// NoDay sentinel for "no day selected" in a form field
	NoDay = -1

	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// ErrInvalidDayIndex day selector is the sentinel or outside 0..5
var ErrInvalidDayIndex = errors.New("indice del giorno non valido")

// DayNames Italian weekday names, Monday first
var DayNames = [WorkDays]string{
	"Lunedì",
	"Martedì",
	"Mercoledì",
	"Giovedì",
	"Venerdì",
	"Sabato",
}

// Clock source of the current instant
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock wall clock
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Date calendar day at midnight in a fixed location
type Date struct {
	t time.Time
}

// NewDate builds the date y-m-d in loc
func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

// DateOf truncates t to its civil day in loc
func DateOf(t time.Time, loc *time.Location) Date {
	t = t.In(loc)
	return NewDate(t.Year(), t.Month(), t.Day(), loc)
}

// ParseISODate parses a "2006-01-02" string in loc
func ParseISODate(s string, loc *time.Location) (Date, error) {
	t, err := time.ParseInLocation(isoLayout, s, loc)
	if err != nil {
		return Date{}, fmt.Errorf("data non valida %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// Time midnight of the day
func (d Date) Time() time.Time { return d.t }

// Weekday zero-based offset from Monday (Sunday = 6)
func (d Date) Weekday() int {
	return (int(d.t.Weekday()) + 6) % 7
}

// DayName Italian weekday name; empty for Sunday
func (d Date) DayName() string {
	wd := d.Weekday()
	if wd >= WorkDays {
		return ""
	}
	return DayNames[wd]
}

// AddDays shifts the date by n calendar days
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Monday floors the date to its week's Monday
func (d Date) Monday() Date {
	return d.AddDays(-d.Weekday())
}

// NextWeek same weekday seven days later
func (d Date) NextWeek() Date {
	return d.AddDays(7)
}

// UntilSaturday yields every date from d through Saturday of the same week.
// The sequence is lazy and can be ranged over more than once.
func (d Date) UntilSaturday() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for i := 0; i < WorkDays-d.Weekday(); i++ {
			if !yield(d.AddDays(i)) {
				return
			}
		}
	}
}

// WeekBounds Monday and Saturday of the week containing d
func (d Date) WeekBounds() (Date, Date) {
	monday := d.Monday()
	return monday, monday.AddDays(WorkDays - 1)
}

// WeekBoundsText "dd/mm/yyyy - dd/mm/yyyy"
func (d Date) WeekBoundsText() string {
	monday, saturday := d.WeekBounds()
	return monday.String() + " - " + saturday.String()
}

// ISO "2006-01-02"
func (d Date) ISO() string { return d.t.Format(isoLayout) }

// String "02/01/2006"
func (d Date) String() string { return d.t.Format(displayLayout) }

// Equal same civil day
func (d Date) Equal(o Date) bool {
	return d.ISO() == o.ISO()
}

// Before strictly earlier civil day
func (d Date) Before(o Date) bool {
	return d.ISO() < o.ISO()
}

// ── Week selector ──

// Week selects one of the two visible week windows
type Week int

const (
	CurrentWeek Week = iota
	NextWeek
)

// ParseWeek accepts the values used by the forms ("true"/"current" for the
// current week, "false"/"next" for the next one); anything else is the
// current week.
func ParseWeek(s string) Week {
	switch s {
	case "false", "next", "1":
		return NextWeek
	default:
		return CurrentWeek
	}
}

func (w Week) String() string {
	if w == NextWeek {
		return "next"
	}
	return "current"
}

// Label Italian label of the week window
func (w Week) Label() string {
	if w == NextWeek {
		return "Settimana prossima"
	}
	return "Settimana corrente"
}

// ── Calendar ──

// Calendar resolves symbolic week/day selectors against a clock
type Calendar struct {
	clock Clock
	loc   *time.Location
}

// NewCalendar creates a Calendar; nil arguments fall back to the system
// clock and DefaultTimezone.
func NewCalendar(clock Clock, loc *time.Location) *Calendar {
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = MustLoadLocation(DefaultTimezone)
	}
	return &Calendar{clock: clock, loc: loc}
}

// MustLoadLocation loads an IANA zone and panics if it is unknown
func MustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("timezone %q non disponibile: %v", name, err))
	}
	return loc
}

// Location civil timezone of the calendar
func (c *Calendar) Location() *time.Location { return c.loc }

// Today current civil date; Sunday becomes the following Monday
func (c *Calendar) Today() Date {
	today := DateOf(c.clock.Now(), c.loc)
	if today.Weekday() == WorkDays {
		return today.AddDays(1)
	}
	return today
}

// Monday first day of the selected week window
func (c *Calendar) Monday(week Week) Date {
	monday := c.Today().Monday()
	if week == NextWeek {
		return monday.NextWeek()
	}
	return monday
}

// ResolveDay maps (week, zero-based day index) to a calendar date
func (c *Calendar) ResolveDay(week Week, day int) (Date, error) {
	if day == NoDay || day < 0 || day >= WorkDays {
		return Date{}, fmt.Errorf("%w: %d", ErrInvalidDayIndex, day)
	}
	return c.Monday(week).AddDays(day), nil
}

// WeekDay a selectable day of a week window
type WeekDay struct {
	Index int
	Name  string
	Date  Date
}

// WeekWindow rendering data for one week window
type WeekWindow struct {
	Week   Week
	Bounds string
	Days   []WeekDay
}

// Window lists the selectable days of a week window. The current week
// starts from today, the next one from its Monday.
func (c *Calendar) Window(week Week) WeekWindow {
	start := c.Today()
	if week == NextWeek {
		start = c.Monday(NextWeek)
	}

	var days []WeekDay
	for d := range start.UntilSaturday() {
		days = append(days, WeekDay{Index: d.Weekday(), Name: d.DayName(), Date: d})
	}

	return WeekWindow{
		Week:   week,
		Bounds: start.WeekBoundsText(),
		Days:   days,
	}
}
