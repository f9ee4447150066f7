package repositories

import (
	"context"
	"errors"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *db_models.Subscription) error
	Save(ctx context.Context, sub *db_models.Subscription) error
	FindOwned(ctx context.Context, id, accountID uuid.UUID) (*db_models.Subscription, error)
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	FindByExternalId(ctx context.Context, externalID string) (*db_models.Subscription, error)
	FindActiveForPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Subscription, error)
	FindCanceledForPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Subscription, error)
	ListActiveByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Subscription, error)
	// FindCurrent is the single "current subscription" lookup: the most recent
	// active subscription, else the most recent one of any status.
	FindCurrent(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	PlanIdsByStatus(ctx context.Context, accountID uuid.UUID, status db_models.SubscriptionStatus) ([]uuid.UUID, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const mostRecentFirst = "start_date DESC, created_at DESC"

func (r *subscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error
}

func (r *subscriptionRepository) Save(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error
}

func (r *subscriptionRepository) first(q *gorm.DB) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	if err := q.Preload("Plan").First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindOwned(ctx context.Context, id, accountID uuid.UUID) (*db_models.Subscription, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND account_id = ?", id, accountID))
}

// FindById ignores ownership; callers outside webhooks should use FindOwned.
func (r *subscriptionRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *subscriptionRepository) FindByExternalId(ctx context.Context, externalID string) (*db_models.Subscription, error) {
	return r.first(r.db.WithContext(ctx).Where("external_id = ?", externalID))
}

func (r *subscriptionRepository) FindActiveForPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Subscription, error) {
	return r.first(r.db.WithContext(ctx).
		Where("account_id = ? AND plan_id = ? AND status = ?", accountID, planID, db_models.SubStatusActive).
		Order(mostRecentFirst))
}

func (r *subscriptionRepository) FindCanceledForPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.Subscription, error) {
	return r.first(r.db.WithContext(ctx).
		Where("account_id = ? AND plan_id = ? AND status = ?", accountID, planID, db_models.SubStatusCanceled).
		Order(mostRecentFirst))
}

func (r *subscriptionRepository) ListActiveByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("account_id = ? AND status = ?", accountID, db_models.SubStatusActive).
		Order(mostRecentFirst).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) FindCurrent(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	active, err := r.first(r.db.WithContext(ctx).
		Where("account_id = ? AND status = ?", accountID, db_models.SubStatusActive).
		Order(mostRecentFirst))
	if err != nil || active != nil {
		return active, err
	}
	return r.first(r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order(mostRecentFirst))
}

func (r *subscriptionRepository) PlanIdsByStatus(ctx context.Context, accountID uuid.UUID, status db_models.SubscriptionStatus) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("account_id = ? AND status = ? AND plan_id IS NOT NULL", accountID, status).
		Distinct().
		Pluck("plan_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
