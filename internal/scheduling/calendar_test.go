package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rome = MustLoadLocation(DefaultTimezone)

func calendarAt(year int, month time.Month, day, hour int) *Calendar {
	return NewCalendar(FixedClock(time.Date(year, month, day, hour, 0, 0, 0, rome)), rome)
}

func TestDate_Weekday(t *testing.T) {
	tests := []struct {
		date string
		want int
		name string
	}{
		{"2026-10-19", 0, "Lunedì"},
		{"2026-10-21", 2, "Mercoledì"},
		{"2026-10-24", 5, "Sabato"},
		{"2026-10-25", 6, ""},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseISODate(tt.date, rome)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Weekday())
			assert.Equal(t, tt.name, d.DayName())
		})
	}
}

func TestCalendar_Today_SundayRollsToMonday(t *testing.T) {
	cal := calendarAt(2026, time.October, 25, 10)

	today := cal.Today()

	assert.Equal(t, "2026-10-26", today.ISO())
	assert.Equal(t, 0, today.Weekday())
}

func TestCalendar_Today_UsesCivilTimezone(t *testing.T) {
	// 23:30 UTC on Tuesday is already Wednesday in Rome
	clock := FixedClock(time.Date(2026, time.October, 20, 23, 30, 0, 0, time.UTC))
	cal := NewCalendar(clock, rome)

	assert.Equal(t, "2026-10-21", cal.Today().ISO())
}

func TestDate_Monday_SameForWholeWeek(t *testing.T) {
	monday := NewDate(2026, time.October, 19, rome)
	for d := range monday.UntilSaturday() {
		assert.True(t, d.Monday().Equal(monday), "Monday(%s)", d.ISO())
	}
	sunday := NewDate(2026, time.October, 25, rome)
	assert.True(t, sunday.Monday().Equal(monday))
}

func TestDate_NextWeek(t *testing.T) {
	d := NewDate(2026, time.October, 21, rome)
	assert.Equal(t, "2026-10-28", d.NextWeek().ISO())
	// across the end of daylight saving time
	assert.Equal(t, "2026-10-26", NewDate(2026, time.October, 19, rome).NextWeek().ISO())
}

func TestDate_UntilSaturday_Wednesday(t *testing.T) {
	wednesday := NewDate(2026, time.October, 21, rome)

	var got []string
	for d := range wednesday.UntilSaturday() {
		got = append(got, d.ISO())
	}

	assert.Equal(t, []string{"2026-10-21", "2026-10-22", "2026-10-23", "2026-10-24"}, got)
	assert.Len(t, got, WorkDays-wednesday.Weekday())
}

func TestDate_UntilSaturday_Restartable(t *testing.T) {
	seq := NewDate(2026, time.October, 23, rome).UntilSaturday()

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}

	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count())
}

func TestDate_UntilSaturday_EarlyStop(t *testing.T) {
	var first Date
	for d := range NewDate(2026, time.October, 19, rome).UntilSaturday() {
		first = d
		break
	}
	assert.Equal(t, "2026-10-19", first.ISO())
}

func TestDate_WeekBounds(t *testing.T) {
	monday, saturday := NewDate(2026, time.October, 22, rome).WeekBounds()

	assert.Equal(t, "2026-10-19", monday.ISO())
	assert.Equal(t, "2026-10-24", saturday.ISO())
	assert.Equal(t, "19/10/2026 - 24/10/2026", NewDate(2026, time.October, 22, rome).WeekBoundsText())
}

func TestCalendar_ResolveDay(t *testing.T) {
	cal := calendarAt(2026, time.October, 21, 9)

	d, err := cal.ResolveDay(CurrentWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", d.ISO())

	d, err = cal.ResolveDay(CurrentWeek, 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-24", d.ISO())

	d, err = cal.ResolveDay(NextWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-26", d.ISO())
}

func TestCalendar_ResolveDay_Invalid(t *testing.T) {
	cal := calendarAt(2026, time.October, 21, 9)

	for _, day := range []int{NoDay, -7, 6, 42} {
		_, err := cal.ResolveDay(CurrentWeek, day)
		assert.True(t, errors.Is(err, ErrInvalidDayIndex), "day %d", day)
	}
}

func TestCalendar_Window(t *testing.T) {
	cal := calendarAt(2026, time.October, 23, 9)

	current := cal.Window(CurrentWeek)
	require.Len(t, current.Days, 2)
	assert.Equal(t, 4, current.Days[0].Index)
	assert.Equal(t, "Venerdì", current.Days[0].Name)
	assert.Equal(t, "19/10/2026 - 24/10/2026", current.Bounds)

	next := cal.Window(NextWeek)
	require.Len(t, next.Days, WorkDays)
	assert.Equal(t, "26/10/2026", next.Days[0].Date.String())
	assert.Equal(t, "26/10/2026 - 31/10/2026", next.Bounds)
}

func TestParseWeek(t *testing.T) {
	assert.Equal(t, NextWeek, ParseWeek("false"))
	assert.Equal(t, NextWeek, ParseWeek("next"))
	assert.Equal(t, CurrentWeek, ParseWeek("true"))
	assert.Equal(t, CurrentWeek, ParseWeek(""))
	assert.Equal(t, CurrentWeek, ParseWeek("garbage"))
}
