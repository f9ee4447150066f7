package services

import (
	"context"
	"testing"

	"fithub/internal/models/request_models"
	"fithub/internal/repositories"
	"fithub/internal/testutil"
	"fithub/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommunityService(t *testing.T, db *gorm.DB) CommunityServiceInterface {
	return NewCommunityService(
		repositories.NewProgressRepository(db),
		repositories.NewNewsletterRepository(db),
		newTestMedia(t),
	)
}

func TestCommunityService_CreateListDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newCommunityService(t, db)
	ctx := context.Background()
	author := testutil.CreateAccount(t, db, "author")
	other := testutil.CreateAccount(t, db, "other")

	update, err := svc.CreateProgress(ctx, author.ID, request_models.ProgressUpdateRequest{Title: " 5k PR ", Content: "22:10"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "5k PR", update.Title)

	feed, err := svc.ListProgress(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.False(t, feed[0].IsOwner)

	err = svc.DeleteProgress(ctx, other.ID, update.ID)
	assert.ErrorIs(t, err, utils.ErrProgressNotFound)

	require.NoError(t, svc.DeleteProgress(ctx, author.ID, update.ID))
	feed, err = svc.ListProgress(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCommunityService_SubscribeIsCaseInsensitiveAndIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newCommunityService(t, db)
	ctx := context.Background()

	created, err := svc.Subscribe(ctx, "Fan@Example.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Subscribe(ctx, " fan@example.com ")
	require.NoError(t, err)
	assert.False(t, created)
}
