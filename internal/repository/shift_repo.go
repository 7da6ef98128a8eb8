package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Luni-4/volunteers-shifts/internal/model"
	"github.com/Luni-4/volunteers-shifts/internal/scheduling"
	"github.com/Luni-4/volunteers-shifts/pkg/database"
	pkgerrors "github.com/Luni-4/volunteers-shifts/pkg/errors"
)

// BuildFunc computes the new bookings from the ones already persisted
type BuildFunc func(persisted scheduling.ShiftSet) (scheduling.ShiftSet, error)

// ShiftRepository shift access
type ShiftRepository interface {
	ListByCard(ctx context.Context, cardID int) ([]model.Shift, error)
	// InsertNew reads the card's shifts, calls build and stores its result
	// in one serializable transaction
	InsertNew(ctx context.Context, cardID int, build BuildFunc) ([]model.Shift, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteOwned(ctx context.Context, id int64, cardID int) (int64, error)
	DeleteBefore(ctx context.Context, date time.Time) (int64, error)
	ListAll(ctx context.Context) ([]model.Shift, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo creates a ShiftRepository
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

const shiftOrder = "date, entrance_hour, task, card_id"

func (r *shiftRepo) ListByCard(ctx context.Context, cardID int) ([]model.Shift, error) {
	return listByCard(r.db.WithContext(ctx), cardID)
}

func listByCard(db *gorm.DB, cardID int) ([]model.Shift, error) {
	var shifts []model.Shift
	err := db.Where("card_id = ?", cardID).
		Order(shiftOrder).
		Find(&shifts).Error
	return shifts, err
}

const insertAttempts = 3

var errEmptyBuild = errors.New("nessun turno da inserire")

func (r *shiftRepo) InsertNew(ctx context.Context, cardID int, build BuildFunc) ([]model.Shift, error) {
	var inserted []model.Shift

	for attempt := 1; ; attempt++ {
		inserted = nil
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			persisted, err := listByCard(tx, cardID)
			if err != nil {
				return err
			}

			fresh, err := build(model.ShiftSet(persisted))
			if err != nil {
				return err
			}
			if fresh.Len() == 0 {
				return errEmptyBuild
			}

			rows := make([]model.Shift, 0, fresh.Len())
			for _, key := range fresh.Sorted() {
				row, err := model.ShiftFromKey(key)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}

			// one statement per row: RETURNING skips conflicting rows, so a
			// batch would hand ids to the wrong rows
			for i := range rows {
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows[i])
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 1 {
					inserted = append(inserted, rows[i])
				}
			}
			return nil
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		switch {
		case err == nil:
			return inserted, nil
		case errors.Is(err, errEmptyBuild):
			return nil, nil
		case database.IsSerializationFailure(err):
			if attempt < insertAttempts && ctx.Err() == nil {
				continue
			}
			return nil, pkgerrors.ErrConcurrentSubmission
		default:
			return nil, err
		}
	}
}

func (r *shiftRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Shift{})
	return res.RowsAffected, res.Error
}

func (r *shiftRepo) DeleteOwned(ctx context.Context, id int64, cardID int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND card_id = ?", id, cardID).
		Delete(&model.Shift{})
	return res.RowsAffected, res.Error
}

func (r *shiftRepo) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("date < ?", model.FormatDate(date)).
		Delete(&model.Shift{})
	return res.RowsAffected, res.Error
}

func (r *shiftRepo) ListAll(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Preload("Volunteer").
		Order("card_id, " + shiftOrder).
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Preload("Volunteer").
		Where("date = ?", model.FormatDate(date)).
		Order("task, entrance_hour, card_id").
		Find(&shifts).Error
	return shifts, err
}
