package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RepositoryFactory hands out repositories bound to one open transaction.
type RepositoryFactory interface {
	Accounts() AccountRepository
	Profiles() ProfileRepository
	Products() ProductRepository
	Orders() OrderRepository
	Plans() IPlanRepository
	Subscriptions() SubscriptionRepository
}

type TransactionManager interface {
	// Execute commits when fn returns nil and rolls back otherwise.
	Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error
}

type gormTransactionManager struct {
	db *gorm.DB
}

type gormRepositoryFactory struct {
	tx *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{db: db}
}

func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func (f *gormRepositoryFactory) Accounts() AccountRepository { return NewAccountRepository(f.tx) }
func (f *gormRepositoryFactory) Profiles() ProfileRepository { return NewProfileRepository(f.tx) }
func (f *gormRepositoryFactory) Products() ProductRepository { return NewProductRepository(f.tx) }
func (f *gormRepositoryFactory) Orders() OrderRepository     { return NewOrderRepository(f.tx) }
func (f *gormRepositoryFactory) Plans() IPlanRepository      { return NewPlanRepository(f.tx) }
func (f *gormRepositoryFactory) Subscriptions() SubscriptionRepository {
	return NewSubscriptionRepository(f.tx)
}
