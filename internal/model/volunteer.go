package model

// Volunteer volunteers table, filled from the roster export
type Volunteer struct {
	CardID     int    `gorm:"primaryKey;autoIncrement:false"  json:"card_id"`
	Surname    string `gorm:"type:varchar(128);not null"      json:"surname"`
	Name       string `gorm:"type:varchar(128);not null"      json:"name"`
	FiscalCode string `gorm:"type:varchar(32);not null"       json:"-"`
	Disabled   bool   `gorm:"not null;default:false"          json:"disabled"`
	Timestamps
}

// TableName table name
func (Volunteer) TableName() string { return "volunteers" }

// FullName "Name Surname"
func (v *Volunteer) FullName() string {
	if v.Name == "" {
		return v.Surname
	}
	return v.Name + " " + v.Surname
}
