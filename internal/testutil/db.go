// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"context"
	"testing"

	"fithub/internal/infra"
	"fithub/internal/models/db_models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory SQLite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), infra.GormConfig(nil))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.AutoMigrate(db))
	return db
}

func CreateAccount(t *testing.T, db *gorm.DB, username string) *db_models.Account {
	t.Helper()
	account := &db_models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(account).Error)
	require.NoError(t, db.Create(&db_models.Profile{AccountID: account.ID}).Error)
	return account
}

func CreateProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *db_models.Product {
	t.Helper()
	product := &db_models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func CreatePlan(t *testing.T, db *gorm.DB, name string, interval db_models.PlanInterval, priceID string) *db_models.Plan {
	t.Helper()
	plan := &db_models.Plan{
		Name:     name,
		Price:    decimal.RequireFromString("9.99"),
		Interval: interval,
		IsActive: true,
	}
	if priceID != "" {
		plan.StripePriceID = &priceID
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func CreateSubscription(t *testing.T, db *gorm.DB, accountID, planID uuid.UUID, externalID string, status db_models.SubscriptionStatus) *db_models.Subscription {
	t.Helper()
	sub := &db_models.Subscription{
		AccountID:  accountID,
		PlanID:     &planID,
		ExternalID: externalID,
		Status:     status,
		StartDate:  Day(2024, 1, 1),
	}
	require.NoError(t, db.Omit("Account", "Plan").Create(sub).Error)
	return sub
}

func Reload[T any](t *testing.T, db *gorm.DB, id uuid.UUID) *T {
	t.Helper()
	var out T
	require.NoError(t, db.WithContext(context.Background()).First(&out, "id = ?", id).Error)
	return &out
}
