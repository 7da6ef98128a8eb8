package dto

// ── live board ──

// BoardQuery board parameters; defaults are the current week and today
type BoardQuery struct {
	Week string `form:"week"`
	Day  *int   `form:"day" binding:"omitempty,min=0,max=5"`
}

// BoardVolunteer volunteer booked on a task
type BoardVolunteer struct {
	Name         string `json:"name"`
	EntranceHour string `json:"entrance_hour,omitempty"`
	ExitHour     string `json:"exit_hour,omitempty"`
}

// BoardTask one task of the board
type BoardTask struct {
	Task       int              `json:"task"`
	Name       string           `json:"name"`
	Hours      string           `json:"hours,omitempty"`
	Volunteers []BoardVolunteer `json:"volunteers"`
}

// BoardResponse who works on a given day
type BoardResponse struct {
	Week    string               `json:"week"`
	Day     int                  `json:"day"`
	Date    string               `json:"date"`
	DayName string               `json:"day_name"`
	Windows []WeekWindowResponse `json:"windows"`
	Tasks   []BoardTask          `json:"tasks"`
}
