package dto

import "github.com/Luni-4/volunteers-shifts/internal/scheduling"

// ── shift form ──

// SlotRequest one task row; hours are indices into the hour table
type SlotRequest struct {
	Task     int `json:"task"`
	Entrance int `json:"entrance"`
	Exit     int `json:"exit"`
}

// DayRequest one ticked day
type DayRequest struct {
	Day   int           `json:"day"`
	Slots []SlotRequest `json:"slots" binding:"max=20"`
}

// WeekRequest ticked days of one week window
type WeekRequest struct {
	Days []DayRequest `json:"days" binding:"max=6,dive"`
}

// SubmitShiftsRequest shift form submission
type SubmitShiftsRequest struct {
	FormToken string      `json:"form_token" binding:"required,max=64"`
	Current   WeekRequest `json:"current"`
	Next      WeekRequest `json:"next"`
}

func (w WeekRequest) selection() scheduling.WeekSelection {
	days := make([]scheduling.DaySelection, 0, len(w.Days))
	for _, d := range w.Days {
		slots := make([]scheduling.Slot, 0, len(d.Slots))
		for _, s := range d.Slots {
			slots = append(slots, scheduling.Slot{Task: s.Task, Entrance: s.Entrance, Exit: s.Exit})
		}
		days = append(days, scheduling.DaySelection{Day: d.Day, Slots: slots})
	}
	return scheduling.WeekSelection{Days: days}
}

// Submission converts the request for cardID
func (r *SubmitShiftsRequest) Submission(cardID int) *scheduling.Submission {
	return &scheduling.Submission{
		CardID:  cardID,
		Current: r.Current.selection(),
		Next:    r.Next.selection(),
	}
}

// ShiftFormQuery GET shift-form parameters
type ShiftFormQuery struct {
	Rows int `form:"rows" binding:"omitempty,min=1,max=20"`
}

// GetRows rows shown per day, at least one
func (q *ShiftFormQuery) GetRows() int {
	if q.Rows <= 0 {
		return 1
	}
	return q.Rows
}

// TaskResponse catalog entry
type TaskResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Hours string `json:"hours,omitempty"`
}

// HourOptionResponse selectable hour
type HourOptionResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// WeekDayResponse selectable day
type WeekDayResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Date  string `json:"date"`
}

// WeekWindowResponse one week window of the form
type WeekWindowResponse struct {
	Week   string            `json:"week"`
	Label  string            `json:"label"`
	Bounds string            `json:"bounds"`
	Days   []WeekDayResponse `json:"days"`
}

// ShiftFormResponse everything needed to render the shift form
type ShiftFormResponse struct {
	CardID        int                  `json:"card_id"`
	Mode          string               `json:"mode"`
	Rows          int                  `json:"rows"`
	FormToken     string               `json:"form_token"`
	Tasks         []TaskResponse       `json:"tasks"`
	EntranceHours []HourOptionResponse `json:"entrance_hours,omitempty"`
	ExitHours     []HourOptionResponse `json:"exit_hours,omitempty"`
	Current       WeekWindowResponse   `json:"current"`
	Next          WeekWindowResponse   `json:"next"`
}

// ShiftResponse stored shift
type ShiftResponse struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	DateText     string `json:"date_text"`
	Day          string `json:"day"`
	Task         int    `json:"task"`
	TaskName     string `json:"task_name"`
	EntranceHour string `json:"entrance_hour,omitempty"`
	ExitHour     string `json:"exit_hour,omitempty"`
	Hours        string `json:"hours"`
}

// SubmitShiftsResponse result of a submission
type SubmitShiftsResponse struct {
	Created          int             `json:"created"`
	AlreadySubmitted bool            `json:"already_submitted"`
	Shifts           []ShiftResponse `json:"shifts"`
}
