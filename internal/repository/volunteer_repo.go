package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Luni-4/volunteers-shifts/internal/model"
)

// VolunteerRepository volunteer roster access
type VolunteerRepository interface {
	GetByCardID(ctx context.Context, cardID int) (*model.Volunteer, error)
	ExistsSurname(ctx context.Context, surname string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]model.Volunteer, int64, error)
	ListAll(ctx context.Context) ([]model.Volunteer, error)
	// Upsert inserts new card ids and refreshes the existing ones
	Upsert(ctx context.Context, volunteers []model.Volunteer) (int64, error)
}

type volunteerRepo struct {
	db *gorm.DB
}

// NewVolunteerRepo creates a VolunteerRepository
func NewVolunteerRepo(db *gorm.DB) VolunteerRepository {
	return &volunteerRepo{db: db}
}

func (r *volunteerRepo) GetByCardID(ctx context.Context, cardID int) (*model.Volunteer, error) {
	var v model.Volunteer
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *volunteerRepo) ExistsSurname(ctx context.Context, surname string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Volunteer{}).
		Where("surname = ?", surname).
		Count(&n).Error
	return n > 0, err
}

func (r *volunteerRepo) List(ctx context.Context, offset, limit int) ([]model.Volunteer, int64, error) {
	var volunteers []model.Volunteer
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Volunteer{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("card_id").
		Find(&volunteers).Error; err != nil {
		return nil, 0, err
	}

	return volunteers, total, nil
}

func (r *volunteerRepo) ListAll(ctx context.Context) ([]model.Volunteer, error) {
	var volunteers []model.Volunteer
	err := r.db.WithContext(ctx).Order("card_id").Find(&volunteers).Error
	return volunteers, err
}

const upsertBatchSize = 200

func (r *volunteerRepo) Upsert(ctx context.Context, volunteers []model.Volunteer) (int64, error) {
	if len(volunteers) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for i := range volunteers {
		volunteers[i].UpdatedAt = now
		if volunteers[i].CreatedAt.IsZero() {
			volunteers[i].CreatedAt = now
		}
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"surname", "name", "fiscal_code", "disabled", "updated_at"}),
		}).
		CreateInBatches(volunteers, upsertBatchSize)
	return res.RowsAffected, res.Error
}
