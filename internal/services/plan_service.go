package services

import (
	"context"
	"strings"
	"time"

	"fithub/config"
	"fithub/internal/metrics"
	"fithub/internal/models/db_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// CancelOutcome tells the caller which message to show after a cancellation.
type CancelOutcome int

const (
	// CancelOutcomeCanceled: the processor accepted the cancellation.
	CancelOutcomeCanceled CancelOutcome = iota
	// CancelOutcomeGoneUpstream: the processor no longer knew the subscription.
	CancelOutcomeGoneUpstream
)

type PlanServiceInterface interface {
	// ListPlans returns active plans; viewer may be uuid.Nil for anonymous callers.
	ListPlans(ctx context.Context, viewer uuid.UUID) (*resp.PlansPageResponse, error)
	// Enroll starts a subscription checkout for planID, switching away from
	// any other active plan once the checkout completes.
	Enroll(ctx context.Context, account *db_models.Account, planID uuid.UUID) (*CheckoutSession, error)
	CurrentSubscription(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	Cancel(ctx context.Context, accountID, subscriptionID uuid.UUID) (CancelOutcome, error)
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	subRepo  repositories.SubscriptionRepository
	gateway  PaymentGateway
	baseURL  string
	now      func() time.Time
}

func NewPlanService(
	planRepo repositories.IPlanRepository,
	subRepo repositories.SubscriptionRepository,
	gateway PaymentGateway,
	cfg *config.Config,
) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
		subRepo:  subRepo,
		gateway:  gateway,
		baseURL:  strings.TrimRight(cfg.HTTP.BaseURL, "/"),
		now:      time.Now,
	}
}

func (p *PlanService) ListPlans(ctx context.Context, viewer uuid.UUID) (*resp.PlansPageResponse, error) {
	plans, err := p.planRepo.GetActivePlans(ctx)
	if err != nil {
		return nil, utils.DBError("list plans", err)
	}

	out := &resp.PlansPageResponse{Plans: make([]resp.SubscriptionPlan, 0, len(plans))}
	for i := range plans {
		out.Plans = append(out.Plans, *resp.NewSubscriptionPlan(&plans[i]))
	}
	if viewer == uuid.Nil {
		return out, nil
	}

	if out.ActivePlanIDs, err = p.subRepo.PlanIdsByStatus(ctx, viewer, db_models.SubStatusActive); err != nil {
		return nil, utils.DBError("active plan ids", err)
	}
	if out.CanceledPlanIDs, err = p.subRepo.PlanIdsByStatus(ctx, viewer, db_models.SubStatusCanceled); err != nil {
		return nil, utils.DBError("canceled plan ids", err)
	}
	current, err := p.CurrentSubscription(ctx, viewer)
	if err != nil {
		return nil, err
	}
	// A lapsed subscription is history, not the current plan.
	if current != nil && current.IsActive() {
		out.CurrentPlan = resp.NewSubscriptionPlan(current.Plan)
	}
	return out, nil
}

func (p *PlanService) Enroll(ctx context.Context, account *db_models.Account, planID uuid.UUID) (*CheckoutSession, error) {
	plan, err := p.planRepo.GetActivePlanById(ctx, planID)
	if err != nil {
		return nil, utils.DBError("find plan", err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	active, err := p.subRepo.ListActiveByAccount(ctx, account.ID)
	if err != nil {
		return nil, utils.DBError("list active subscriptions", err)
	}
	for _, sub := range active {
		if sub.PlanID != nil && *sub.PlanID == plan.ID {
			return nil, utils.ErrAlreadySubscribed
		}
	}

	if !plan.Purchasable() {
		return nil, pkgerrors.Wrapf(utils.ErrPlanNotPurchasable, "plan %s has no processor price", plan.ID)
	}

	metadata := map[string]string{
		MetaPlanID: plan.ID.String(),
		MetaUserID: account.ID.String(),
	}
	if len(active) > 0 {
		// ListActiveByAccount is most recent first.
		old := active[0]
		metadata[MetaSwitching] = "true"
		metadata[MetaOldSubscriptionID] = old.ID.String()
		metadata[MetaOldExternalID] = old.ExternalID
	}

	session, err := p.gateway.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		Mode:          CheckoutModeSubscription,
		CustomerEmail: account.Email,
		PriceID:       *plan.StripePriceID,
		Metadata:      metadata,
		SuccessURL:    p.baseURL + "/subscriptions/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     p.baseURL + "/subscriptions/cancel",
	})
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues(string(CheckoutModeSubscription), "error").Inc()
		log.Error().Err(err).Str("account_id", account.ID.String()).Str("plan_id", plan.ID.String()).Msg("create subscription checkout session")
		return nil, err
	}

	metrics.CheckoutSessionsTotal.WithLabelValues(string(CheckoutModeSubscription), "created").Inc()
	log.Info().
		Str("account_id", account.ID.String()).
		Str("plan_id", plan.ID.String()).
		Bool("switching", len(active) > 0).
		Str("session_id", session.ID).
		Msg("subscription checkout session created")
	return session, nil
}

func (p *PlanService) CurrentSubscription(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	sub, err := p.subRepo.FindCurrent(ctx, accountID)
	if err != nil {
		return nil, utils.DBError("find current subscription", err)
	}
	return sub, nil
}

func (p *PlanService) Cancel(ctx context.Context, accountID, subscriptionID uuid.UUID) (CancelOutcome, error) {
	sub, err := p.subRepo.FindOwned(ctx, subscriptionID, accountID)
	if err != nil {
		return 0, utils.DBError("find subscription", err)
	}
	if sub == nil {
		return 0, utils.ErrSubscriptionNotFound
	}
	if !sub.IsActive() {
		return 0, utils.ErrAlreadyCanceled
	}

	logger := log.With().Str("subscription_id", sub.ID.String()).Str("external_id", sub.ExternalID).Logger()

	outcome := CancelOutcomeCanceled
	if err := p.gateway.CancelSubscription(ctx, sub.ExternalID); err != nil {
		if !pkgerrors.Is(err, utils.ErrProviderResourceMissing) {
			logger.Error().Err(err).Msg("cancel subscription at processor")
			return 0, err
		}
		logger.Warn().Msg("subscription already gone at processor, canceling locally")
		outcome = CancelOutcomeGoneUpstream
	}

	// The row is closed right away even though the processor keeps billing
	// access until the end of the current period.
	markCanceled(sub, p.now())
	if err := p.subRepo.Save(ctx, sub); err != nil {
		return 0, utils.DBError("save canceled subscription", err)
	}

	metrics.SubscriptionTransitions.WithLabelValues("user_canceled").Inc()
	logger.Info().Msg("subscription canceled by user")
	return outcome, nil
}

// markCanceled closes sub as of today.
func markCanceled(sub *db_models.Subscription, now time.Time) {
	sub.Status = db_models.SubStatusCanceled
	sub.EndDate = utils.DatePtr(now)
}

// nextPaymentDate is one billing interval after start.
func nextPaymentDate(start time.Time, interval db_models.PlanInterval) time.Time {
	if interval == db_models.IntervalYearly {
		return utils.AddMonths(start, 12)
	}
	return utils.AddMonths(start, 1)
}
