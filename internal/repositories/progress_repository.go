package repositories

import (
	"context"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressRepository interface {
	Create(ctx context.Context, update *db_models.ProgressUpdate) error
	ListAll(ctx context.Context) ([]db_models.ProgressUpdate, error)
	ListRecentByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.ProgressUpdate, error)
	// DeleteOwned removes the update only when accountID owns it.
	DeleteOwned(ctx context.Context, id, accountID uuid.UUID) (bool, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, update *db_models.ProgressUpdate) error {
	return r.db.WithContext(ctx).Omit("Account").Create(update).Error
}

func (r *progressRepository) ListAll(ctx context.Context) ([]db_models.ProgressUpdate, error) {
	var updates []db_models.ProgressUpdate
	err := r.db.WithContext(ctx).
		Preload("Account").
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *progressRepository) ListRecentByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.ProgressUpdate, error) {
	var updates []db_models.ProgressUpdate
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *progressRepository) DeleteOwned(ctx context.Context, id, accountID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&db_models.ProgressUpdate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
