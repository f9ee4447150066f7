package repositories

import (
	"context"
	"errors"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *db_models.Review) error
	// FindOwned loads a review only when accountID wrote it.
	FindOwned(ctx context.Context, id, accountID uuid.UUID) (*db_models.Review, error)
	Update(ctx context.Context, review *db_models.Review) error
	Delete(ctx context.Context, review *db_models.Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]db_models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *db_models.Review) error {
	return r.db.WithContext(ctx).Omit("Account").Create(review).Error
}

func (r *reviewRepository) FindOwned(ctx context.Context, id, accountID uuid.UUID) (*db_models.Review, error) {
	var review db_models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *db_models.Review) error {
	return r.db.WithContext(ctx).
		Model(review).
		Select("rating", "comment").
		Updates(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, review *db_models.Review) error {
	return r.db.WithContext(ctx).Delete(review).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]db_models.Review, error) {
	var reviews []db_models.Review
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
