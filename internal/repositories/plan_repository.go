package repositories

import (
	"context"
	"errors"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IPlanRepository interface {
	Insert(ctx context.Context, plan *db_models.Plan) error
	GetPlanById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	GetActivePlanById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	GetActivePlans(ctx context.Context) ([]db_models.Plan, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) Insert(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Create(plan).Error
}

func (p PlanRepository) GetPlanById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	return p.first(p.db.WithContext(ctx).Where("id = ?", planID))
}

func (p PlanRepository) GetActivePlanById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	return p.first(p.db.WithContext(ctx).Where("id = ? AND is_active = ?", planID, true))
}

func (p PlanRepository) first(q *gorm.DB) (*db_models.Plan, error) {
	var plan db_models.Plan
	if err := q.First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p PlanRepository) GetActivePlans(ctx context.Context) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
