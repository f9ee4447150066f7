package services

import (
	"context"
	"testing"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	"fithub/internal/repositories"
	"fithub/internal/testutil"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	productRepo := repositories.NewProductRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	svc := NewReviewService(reviewRepo, productRepo)
	catalog := NewCatalogService(productRepo, reviewRepo)

	author := testutil.CreateAccount(t, db, "author")
	other := testutil.CreateAccount(t, db, "other")
	product := testutil.CreateProduct(t, db, "Kettlebell", "49.00", 3)

	review, err := svc.Submit(ctx, author.ID, product.ID, request_models.ReviewRequest{Rating: "4", Comment: "  Solid grip  "})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Solid grip", review.Comment)

	_, err = svc.Submit(ctx, author.ID, uuid.New(), request_models.ReviewRequest{Rating: "5"})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	t.Run("only the author can edit", func(t *testing.T) {
		_, err := svc.Update(ctx, other.ID, review.ID, request_models.ReviewRequest{Rating: "1"})
		assert.ErrorIs(t, err, utils.ErrReviewNotFound)

		updated, err := svc.Update(ctx, author.ID, review.ID, request_models.ReviewRequest{Rating: "5", Comment: "Even better"})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)
	})

	t.Run("detail marks the viewer's reviews", func(t *testing.T) {
		detail, err := catalog.GetProductDetail(ctx, product.ID, author.ID)
		require.NoError(t, err)
		require.Len(t, detail.Reviews, 1)
		assert.True(t, detail.Reviews[0].IsOwner)
		assert.True(t, detail.Product.InStock)

		detail, err = catalog.GetProductDetail(ctx, product.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, detail.Reviews[0].IsOwner)
	})

	t.Run("delete by someone else leaves the review", func(t *testing.T) {
		_, err := svc.Delete(ctx, other.ID, review.ID)
		assert.ErrorIs(t, err, utils.ErrReviewNotFound)

		var count int64
		require.NoError(t, db.Model(&db_models.Review{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("author deletes", func(t *testing.T) {
		productID, err := svc.Delete(ctx, author.ID, review.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, productID)

		_, err = svc.GetOwned(ctx, author.ID, review.ID)
		assert.ErrorIs(t, err, utils.ErrReviewNotFound)
	})
}

func TestCatalogService_GetProductMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(repositories.NewProductRepository(db), repositories.NewReviewRepository(db))

	_, err := svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}
