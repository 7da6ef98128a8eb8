package repository

import "gorm.io/gorm"

// Repository aggregate of every repository
type Repository struct {
	Volunteer VolunteerRepository
	Shift     ShiftRepository
}

// NewRepository creates the aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Volunteer: NewVolunteerRepo(db),
		Shift:     NewShiftRepo(db),
	}
}
