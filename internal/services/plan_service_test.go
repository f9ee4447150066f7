package services

import (
	"context"
	"testing"

	"fithub/internal/models/db_models"
	"fithub/internal/repositories"
	"fithub/internal/testutil"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPlanService(t *testing.T, db *gorm.DB, gateway PaymentGateway) *PlanService {
	svc := NewPlanService(
		repositories.NewPlanRepository(db),
		repositories.NewSubscriptionRepository(db),
		gateway,
		testConfig(),
	).(*PlanService)
	svc.now = testutil.FixedClock(testutil.Day(2024, 3, 10))
	return svc
}

func TestPlanService_ListPlansMarksViewerState(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newPlanService(t, db, newMockPaymentGateway(t))
	account := testutil.CreateAccount(t, db, "viewer")
	monthly := testutil.CreatePlan(t, db, "Monthly", db_models.IntervalMonthly, "price_m")
	yearly := testutil.CreatePlan(t, db, "Yearly", db_models.IntervalYearly, "price_y")
	hidden := testutil.CreatePlan(t, db, "Legacy", db_models.IntervalMonthly, "")
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)
	testutil.CreateSubscription(t, db, account.ID, monthly.ID, "sub_a", db_models.SubStatusActive)
	testutil.CreateSubscription(t, db, account.ID, yearly.ID, "sub_c", db_models.SubStatusCanceled)

	anon, err := svc.ListPlans(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, anon.Plans, 2)
	assert.Nil(t, anon.CurrentPlan)

	page, err := svc.ListPlans(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{monthly.ID}, page.ActivePlanIDs)
	assert.Equal(t, []uuid.UUID{yearly.ID}, page.CanceledPlanIDs)
	require.NotNil(t, page.CurrentPlan)
	assert.Equal(t, monthly.ID, page.CurrentPlan.ID)
}

func TestPlanService_ListPlansIgnoresLapsedSubscription(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newPlanService(t, db, newMockPaymentGateway(t))
	account := testutil.CreateAccount(t, db, "lapsed")
	monthly := testutil.CreatePlan(t, db, "Monthly", db_models.IntervalMonthly, "price_m")
	testutil.CreateSubscription(t, db, account.ID, monthly.ID, "sub_old", db_models.SubStatusCanceled)

	page, err := svc.ListPlans(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Nil(t, page.CurrentPlan)
	assert.Empty(t, page.ActivePlanIDs)
	assert.Equal(t, []uuid.UUID{monthly.ID}, page.CanceledPlanIDs)

	// The subscription page still shows the lapsed row.
	current, err := svc.CurrentSubscription(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, db_models.SubStatusCanceled, current.Status)
}

func TestPlanService_Enroll(t *testing.T) {
	db := testutil.NewTestDB(t)
	gateway := newMockPaymentGateway(t)
	svc := newPlanService(t, db, gateway)
	ctx := context.Background()
	account := testutil.CreateAccount(t, db, "enroller")
	monthly := testutil.CreatePlan(t, db, "Monthly", db_models.IntervalMonthly, "price_m")
	yearly := testutil.CreatePlan(t, db, "Yearly", db_models.IntervalYearly, "price_y")
	noPrice := testutil.CreatePlan(t, db, "Coming soon", db_models.IntervalMonthly, "")

	_, err := svc.Enroll(ctx, account, uuid.New())
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)

	_, err = svc.Enroll(ctx, account, noPrice.ID)
	assert.ErrorIs(t, err, utils.ErrPlanNotPurchasable)

	gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req CheckoutSessionRequest) bool {
		_, switching := req.Metadata[MetaSwitching]
		return req.Mode == CheckoutModeSubscription &&
			req.PriceID == "price_m" &&
			req.Metadata[MetaPlanID] == monthly.ID.String() &&
			!switching &&
			req.SuccessURL == "http://shop.test/subscriptions/success?session_id={CHECKOUT_SESSION_ID}"
	})).Return(&CheckoutSession{ID: "cs_m", URL: "https://pay.test/cs_m"}, nil).Once()

	session, err := svc.Enroll(ctx, account, monthly.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs_m", session.ID)

	current := testutil.CreateSubscription(t, db, account.ID, monthly.ID, "sub_m", db_models.SubStatusActive)

	_, err = svc.Enroll(ctx, account, monthly.ID)
	assert.ErrorIs(t, err, utils.ErrAlreadySubscribed)

	gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req CheckoutSessionRequest) bool {
		return req.PriceID == "price_y" &&
			req.Metadata[MetaSwitching] == "true" &&
			req.Metadata[MetaOldSubscriptionID] == current.ID.String() &&
			req.Metadata[MetaOldExternalID] == "sub_m"
	})).Return(nil, pkgerrors.Wrap(utils.ErrPaymentProvider, "card network down")).Once()

	_, err = svc.Enroll(ctx, account, yearly.ID)
	assert.ErrorIs(t, err, utils.ErrPaymentProvider)
}

func TestPlanService_CancelOutcomes(t *testing.T) {
	db := testutil.NewTestDB(t)
	gateway := newMockPaymentGateway(t)
	svc := newPlanService(t, db, gateway)
	ctx := context.Background()
	owner := testutil.CreateAccount(t, db, "owner")
	stranger := testutil.CreateAccount(t, db, "stranger")
	plan := testutil.CreatePlan(t, db, "Monthly", db_models.IntervalMonthly, "price_m")

	ok := testutil.CreateSubscription(t, db, owner.ID, plan.ID, "sub_ok", db_models.SubStatusActive)
	gone := testutil.CreateSubscription(t, db, owner.ID, plan.ID, "sub_gone", db_models.SubStatusActive)
	flaky := testutil.CreateSubscription(t, db, owner.ID, plan.ID, "sub_flaky", db_models.SubStatusActive)

	_, err := svc.Cancel(ctx, stranger.ID, ok.ID)
	assert.ErrorIs(t, err, utils.ErrSubscriptionNotFound)

	gateway.On("CancelSubscription", mock.Anything, "sub_ok").Return(nil).Once()
	outcome, err := svc.Cancel(ctx, owner.ID, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelOutcomeCanceled, outcome)
	reloaded := testutil.Reload[db_models.Subscription](t, db, ok.ID)
	assert.Equal(t, db_models.SubStatusCanceled, reloaded.Status)
	assert.Equal(t, "2024-03-10", day(reloaded.EndDate))

	_, err = svc.Cancel(ctx, owner.ID, ok.ID)
	assert.ErrorIs(t, err, utils.ErrAlreadyCanceled)

	gateway.On("CancelSubscription", mock.Anything, "sub_gone").
		Return(pkgerrors.Wrap(utils.ErrProviderResourceMissing, "gone")).Once()
	outcome, err = svc.Cancel(ctx, owner.ID, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelOutcomeGoneUpstream, outcome)
	assert.Equal(t, db_models.SubStatusCanceled, testutil.Reload[db_models.Subscription](t, db, gone.ID).Status)

	gateway.On("CancelSubscription", mock.Anything, "sub_flaky").
		Return(pkgerrors.Wrap(utils.ErrPaymentProvider, "500")).Once()
	_, err = svc.Cancel(ctx, owner.ID, flaky.ID)
	assert.ErrorIs(t, err, utils.ErrPaymentProvider)
	assert.Equal(t, db_models.SubStatusActive, testutil.Reload[db_models.Subscription](t, db, flaky.ID).Status)
}

func TestNextPaymentDate(t *testing.T) {
	start := testutil.Day(2024, 1, 31)
	assert.Equal(t, testutil.Day(2024, 2, 29), nextPaymentDate(start, db_models.IntervalMonthly))
	assert.Equal(t, testutil.Day(2025, 1, 31), nextPaymentDate(start, db_models.IntervalYearly))
}
