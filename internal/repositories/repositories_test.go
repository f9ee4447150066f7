package repositories

import (
	"context"
	"errors"
	"testing"

	"fithub/internal/models/db_models"
	"fithub/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_DecrementStockNeverGoesNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Kettlebell", "19.99", 3)

	ok, err := repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)
}

func TestProductRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	testutil.CreateProduct(t, db, "Test Product", "19.99", 5)
	testutil.CreateProduct(t, db, "Second Product", "49.99", 5)

	found, err := repo.List(ctx, ProductFilter{Query: "test"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Test Product", found[0].Name)

	lo := decimal.NewFromInt(25)
	found, err = repo.List(ctx, ProductFilter{MinPrice: &lo})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Second Product", found[0].Name)

	hi := decimal.NewFromInt(25)
	found, err = repo.List(ctx, ProductFilter{MaxPrice: &hi})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Test Product", found[0].Name)

	found, err = repo.List(ctx, ProductFilter{Query: "nothing matches"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestNewsletterRepository_DuplicateIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNewsletterRepository(db)
	ctx := context.Background()

	created, err := repo.Subscribe(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Subscribe(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSubscriptionRepository_FindCurrentPrefersActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	acct := testutil.CreateAccount(t, db, "alice")
	basic := testutil.CreatePlan(t, db, "Basic", db_models.IntervalMonthly, "price_basic")
	pro := testutil.CreatePlan(t, db, "Pro", db_models.IntervalYearly, "price_pro")

	none, err := repo.FindCurrent(ctx, acct.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	active := testutil.CreateSubscription(t, db, acct.ID, basic.ID, "sub_basic", db_models.SubStatusActive)
	canceled := testutil.CreateSubscription(t, db, acct.ID, pro.ID, "sub_pro", db_models.SubStatusCanceled)
	// The canceled row is newer but must lose to the active one.
	require.NoError(t, db.Model(canceled).Update("start_date", testutil.Day(2024, 6, 1)).Error)

	current, err := repo.FindCurrent(ctx, acct.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, active.ID, current.ID)
	require.NotNil(t, current.Plan)
	assert.Equal(t, "Basic", current.Plan.Name)

	require.NoError(t, db.Model(active).Update("status", db_models.SubStatusCanceled).Error)
	current, err = repo.FindCurrent(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, canceled.ID, current.ID)

	ids, err := repo.PlanIdsByStatus(ctx, acct.ID, db_models.SubStatusCanceled)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{basic.ID, pro.ID}, ids)
}

func TestProgressRepository_DeleteOwned(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()
	owner := testutil.CreateAccount(t, db, "owner")
	other := testutil.CreateAccount(t, db, "other")
	update := &db_models.ProgressUpdate{AccountID: owner.ID, Title: "Week 1", Content: "Ran 5k"}
	require.NoError(t, repo.Create(ctx, update))

	deleted, err := repo.DeleteOwned(ctx, update.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, update.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := testutil.NewTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.Execute(ctx, func(repos RepositoryFactory) error {
		acct := &db_models.Account{Username: "ghost", PasswordHash: "x"}
		if err := repos.Accounts().Insert(ctx, acct); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := NewAccountRepository(db).FindByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, found)
}
