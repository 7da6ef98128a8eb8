package scheduling

import (
	"maps"
	"slices"
	"strings"
)

// Shift one bookable unit of work. Two shifts are the same booking iff all
// fields are equal, so Shift is used directly as a set key.
type Shift struct {
	Date         string // ISO date
	Task         int
	EntranceHour string // empty for fixed tasks
	ExitHour     string
	CardID       int
}

// ShiftSet uniqueness-checked collection of shifts
type ShiftSet struct {
	m map[Shift]struct{}
}

// NewShiftSet builds a set from shifts, dropping duplicates
func NewShiftSet(shifts ...Shift) ShiftSet {
	s := ShiftSet{m: make(map[Shift]struct{}, len(shifts))}
	for _, sh := range shifts {
		s.m[sh] = struct{}{}
	}
	return s
}

// Add inserts sh; adding an equal shift again is a no-op. It reports
// whether the set grew.
func (s *ShiftSet) Add(sh Shift) bool {
	if s.m == nil {
		s.m = make(map[Shift]struct{})
	}
	if _, ok := s.m[sh]; ok {
		return false
	}
	s.m[sh] = struct{}{}
	return true
}

// Contains membership test
func (s ShiftSet) Contains(sh Shift) bool {
	_, ok := s.m[sh]
	return ok
}

// Len number of distinct shifts
func (s ShiftSet) Len() int { return len(s.m) }

// Difference shifts of s not present in other
func (s ShiftSet) Difference(other ShiftSet) ShiftSet {
	out := ShiftSet{m: make(map[Shift]struct{}, len(s.m))}
	for sh := range s.m {
		if !other.Contains(sh) {
			out.m[sh] = struct{}{}
		}
	}
	return out
}

// Sorted shifts ordered by date, entrance hour, task and card
func (s ShiftSet) Sorted() []Shift {
	out := slices.Collect(maps.Keys(s.m))
	slices.SortFunc(out, compareShifts)
	return out
}

func compareShifts(a, b Shift) int {
	if c := strings.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	if c := strings.Compare(a.EntranceHour, b.EntranceHour); c != 0 {
		return c
	}
	if a.Task != b.Task {
		return a.Task - b.Task
	}
	return a.CardID - b.CardID
}
