package repositories

import (
	"context"
	"errors"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create inserts the order together with its Items.
	Create(ctx context.Context, order *db_models.Order) error
	FindByIdForAccount(ctx context.Context, id, accountID uuid.UUID) (*db_models.Order, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Order, error)
	ExistsForPaymentSession(ctx context.Context, sessionID string) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *db_models.Order) error {
	return r.db.WithContext(ctx).Omit("Account").Create(order).Error
}

func (r *orderRepository) FindByIdForAccount(ctx context.Context, id, accountID uuid.UUID) (*db_models.Order, error) {
	var order db_models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ? AND account_id = ?", id, accountID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Order, error) {
	var orders []db_models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ExistsForPaymentSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Order{}).
		Where("payment_session_id = ?", sessionID).
		Count(&n).Error
	return n > 0, err
}
