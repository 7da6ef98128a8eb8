package model

import "time"

// Timestamps audit fields
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DateLayout ISO layout of DATE columns
const DateLayout = "2006-01-02"

// ParseDate turns an ISO date into the UTC midnight stored in DATE columns
func ParseDate(iso string) (time.Time, error) {
	return time.Parse(DateLayout, iso)
}

// FormatDate ISO text of a DATE column value
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
