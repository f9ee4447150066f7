package repositories

import (
	"context"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Insert(ctx context.Context, profile *db_models.Profile) error
	// GetOrCreate returns the account's profile, creating an empty one if missing.
	GetOrCreate(ctx context.Context, accountID uuid.UUID) (*db_models.Profile, error)
	Save(ctx context.Context, profile *db_models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Insert(ctx context.Context, profile *db_models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := r.db.WithContext(ctx).
		Where(db_models.Profile{AccountID: accountID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *db_models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
