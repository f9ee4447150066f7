package services

import (
	"context"
	"strings"
	"testing"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	"fithub/internal/repositories"
	"fithub/internal/testutil"
	"fithub/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProfileService(t *testing.T, db *gorm.DB) *ProfileService {
	svc := NewProfileService(
		repositories.NewAccountRepository(db),
		repositories.NewProfileRepository(db),
		repositories.NewSubscriptionRepository(db),
		repositories.NewProgressRepository(db),
		newTestMedia(t),
	).(*ProfileService)
	svc.now = testutil.FixedClock(testutil.Day(2024, 5, 20))
	return svc
}

func TestProfileService_PageShowsDaysRemaining(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newProfileService(t, db)
	account := testutil.CreateAccount(t, db, "runner")
	plan := testutil.CreatePlan(t, db, "Monthly", db_models.IntervalMonthly, "price_m")
	sub := testutil.CreateSubscription(t, db, account.ID, plan.ID, "sub_p", db_models.SubStatusActive)
	require.NoError(t, db.Model(sub).Update("next_payment_date", testutil.Day(2024, 6, 1)).Error)

	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&db_models.ProgressUpdate{AccountID: account.ID, Title: "Week", Content: "Ran"}).Error)
	}

	page, err := svc.GetProfilePage(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "runner", page.Username)
	assert.Equal(t, "2024-05-20", page.Today)
	require.NotNil(t, page.Subscription)
	require.NotNil(t, page.DaysRemaining)
	assert.Equal(t, 12, *page.DaysRemaining)
	assert.Len(t, page.RecentUpdates, 5)
}

func TestProfileService_NoDaysRemainingWhenCanceled(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newProfileService(t, db)
	account := testutil.CreateAccount(t, db, "rester")
	plan := testutil.CreatePlan(t, db, "Monthly", db_models.IntervalMonthly, "price_m")
	sub := testutil.CreateSubscription(t, db, account.ID, plan.ID, "sub_c", db_models.SubStatusCanceled)
	require.NoError(t, db.Model(sub).Update("next_payment_date", testutil.Day(2024, 6, 1)).Error)

	page, err := svc.GetProfilePage(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, page.Subscription)
	assert.Equal(t, "canceled", page.Subscription.Status)
	assert.Nil(t, page.DaysRemaining)
}

func TestProfileService_GetProfileCreatesMissingRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newProfileService(t, db)
	account := &db_models.Account{Username: "bare", PasswordHash: "x"}
	require.NoError(t, db.Create(account).Error)

	profile, err := svc.GetProfile(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, profile.AccountID)
}

func TestProfileService_UpdateReplacesAvatar(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newProfileService(t, db)
	account := testutil.CreateAccount(t, db, "swimmer")
	ctx := context.Background()

	first, err := svc.UpdateProfile(ctx, account.ID, request_models.ProfileRequest{Bio: " Swims ", FitnessGoal: "1km"},
		&Upload{Filename: "me.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "Swims", first.Bio)
	require.True(t, strings.HasPrefix(first.AvatarKey, "avatars/"))
	firstKey := first.AvatarKey

	second, err := svc.UpdateProfile(ctx, account.ID, request_models.ProfileRequest{FitnessGoal: "2km"},
		&Upload{Filename: "me2.jpg", Body: strings.NewReader("jpg-bytes")})
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, second.AvatarKey)

	kept, err := svc.UpdateProfile(ctx, account.ID, request_models.ProfileRequest{FitnessGoal: "3km"}, nil)
	require.NoError(t, err)
	assert.Equal(t, second.AvatarKey, kept.AvatarKey)

	_, err = svc.UpdateProfile(ctx, account.ID, request_models.ProfileRequest{},
		&Upload{Filename: "notes.txt", Body: strings.NewReader("text")})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
