package dto

// ── administration ──

// VolunteerResponse roster entry
type VolunteerResponse struct {
	CardID     int    `json:"card_id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	FiscalCode string `json:"fiscal_code"`
	Disabled   bool   `json:"disabled"`
}

// VolunteerListQuery roster list parameters
type VolunteerListQuery struct {
	PaginationRequest
	Refresh bool `form:"refresh"`
}

// RosterRefreshResponse outcome of a roster import
type RosterRefreshResponse struct {
	Imported int `json:"imported"`
}

// VolunteerShiftsResponse a volunteer with every booked shift; disabled
// volunteers are reported without shifts
type VolunteerShiftsResponse struct {
	CardID   int             `json:"card_id"`
	Name     string          `json:"name"`
	Surname  string          `json:"surname"`
	Disabled bool            `json:"disabled"`
	Shifts   []ShiftResponse `json:"shifts"`
}

// ShiftDumpEntry row of the JSON dump
type ShiftDumpEntry struct {
	ID           int64  `json:"id"`
	CardID       int    `json:"card_id"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Date         string `json:"date"`
	Task         int    `json:"task"`
	TaskName     string `json:"task_name"`
	EntranceHour string `json:"entrance_hour,omitempty"`
	ExitHour     string `json:"exit_hour,omitempty"`
}

// CookiePolicyResponse cookie policy page data
type CookiePolicyResponse struct {
	Title    string `json:"title"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	Accepted bool   `json:"accepted"`
}
