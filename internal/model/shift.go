package model

import (
	"time"

	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
)

// Shift shifts table
type Shift struct {
	ID           int64     `gorm:"primaryKey"                   json:"id"`
	Date         time.Time `gorm:"type:date;not null"           json:"date"`
	Task         int       `gorm:"not null"                     json:"task"`
	EntranceHour string    `gorm:"type:varchar(5);not null"     json:"entrance_hour"`
	ExitHour     string    `gorm:"type:varchar(5);not null"     json:"exit_hour"`
	CardID       int       `gorm:"not null;index"               json:"card_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Volunteer *Volunteer `gorm:"foreignKey:CardID;references:CardID" json:"volunteer,omitempty"`
}

// TableName table name
func (Shift) TableName() string { return "shifts" }

// Key the booking identity used by the shift builder
func (s *Shift) Key() scheduling.Shift {
	return scheduling.Shift{
		Date:         FormatDate(s.Date),
		Task:         s.Task,
		EntranceHour: s.EntranceHour,
		ExitHour:     s.ExitHour,
		CardID:       s.CardID,
	}
}

// ShiftFromKey row for a new booking
func ShiftFromKey(k scheduling.Shift) (Shift, error) {
	date, err := ParseDate(k.Date)
	if err != nil {
		return Shift{}, err
	}
	return Shift{
		Date:         date,
		Task:         k.Task,
		EntranceHour: k.EntranceHour,
		ExitHour:     k.ExitHour,
		CardID:       k.CardID,
	}, nil
}

// ShiftSet persisted rows as a set of booking keys
func ShiftSet(rows []Shift) scheduling.ShiftSet {
	set := scheduling.NewShiftSet()
	for i := range rows {
		set.Add(rows[i].Key())
	}
	return set
}
