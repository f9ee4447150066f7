package repositories

import (
	"context"

	"fithub/internal/models/db_models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NewsletterRepository interface {
	// Subscribe inserts the email unless present; created is false for duplicates.
	Subscribe(ctx context.Context, email string) (created bool, err error)
	Count(ctx context.Context) (int64, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&db_models.NewsletterSubscriber{Email: email})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *newsletterRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.NewsletterSubscriber{}).Count(&n).Error
	return n, err
}
