package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fithub/internal/metrics"
	"fithub/internal/models/db_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type SubscriptionWebhookServiceInterface interface {
	// HandleWebhook reconciles local subscriptions with one processor event.
	// Only signature problems and references to unknown accounts or plans
	// are returned as errors; everything else is logged and swallowed so the
	// processor does not redeliver forever.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error)
}

type SubscriptionWebhookService struct {
	txManager repositories.TransactionManager
	gateway   PaymentGateway
	now       func() time.Time
}

func NewSubscriptionWebhookService(txManager repositories.TransactionManager, gateway PaymentGateway) SubscriptionWebhookServiceInterface {
	return &SubscriptionWebhookService{
		txManager: txManager,
		gateway:   gateway,
		now:       time.Now,
	}
}

func (s *SubscriptionWebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	event, err := s.gateway.ParseWebhook(WebhookSubscriptions, payload, signature)
	if err != nil {
		return "", err
	}
	logger := log.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	switch event.Type {
	case EventCheckoutSessionCompleted:
		err = s.onCheckoutCompleted(ctx, event.Object, logger)
	case EventSubscriptionDeleted:
		err = s.onSubscriptionDeleted(ctx, event.Object, logger)
	case EventSubscriptionUpdated:
		err = s.onSubscriptionUpdated(ctx, event.Object, logger)
	default:
		logger.Debug().Msg("subscription webhook: event ignored")
		return event.Type, nil
	}

	if err == nil {
		return event.Type, nil
	}
	if errors.Is(err, utils.ErrInvalidWebhookPayload) {
		logger.Warn().Err(err).Msg("subscription webhook: rejected")
		return event.Type, err
	}
	logger.Error().Err(err).Msg("subscription webhook: reconciliation failed, acknowledging anyway")
	return event.Type, nil
}

func (s *SubscriptionWebhookService) onCheckoutCompleted(ctx context.Context, raw json.RawMessage, logger zerolog.Logger) error {
	var session checkoutSessionObject
	if err := json.Unmarshal(raw, &session); err != nil {
		return pkgerrors.Wrap(utils.ErrInvalidWebhookPayload, err.Error())
	}
	if session.Mode != string(CheckoutModeSubscription) {
		logger.Debug().Str("mode", session.Mode).Msg("subscription webhook: not a subscription checkout, ignored")
		return nil
	}

	meta := session.Metadata
	accountID, err := uuid.Parse(meta[MetaUserID])
	if err != nil {
		return pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "bad user_id %q", meta[MetaUserID])
	}
	planID, err := uuid.Parse(meta[MetaPlanID])
	if err != nil {
		return pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "bad plan_id %q", meta[MetaPlanID])
	}
	externalID := string(session.Subscription)
	if externalID == "" {
		return errors.New("checkout session has no subscription id")
	}

	logger = logger.With().
		Str("account_id", accountID.String()).
		Str("plan_id", planID.String()).
		Str("external_id", externalID).
		Logger()
	today := utils.Today(s.now())

	// External ids of replaced subscriptions, canceled at the processor
	// once the local switch has committed.
	var retired []string
	err = s.txManager.Execute(ctx, func(repos repositories.RepositoryFactory) error {
		retired = nil
		account, err := repos.Accounts().FindById(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "unknown account %s", accountID)
		}
		plan, err := repos.Plans().GetPlanById(ctx, planID)
		if err != nil {
			return err
		}
		if plan == nil {
			return pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "unknown plan %s", planID)
		}

		subs := repos.Subscriptions()
		if meta[MetaSwitching] == "true" {
			if retired, err = retireOldSubscriptions(ctx, subs, account.ID, plan.ID, externalID, meta, today, logger); err != nil {
				return err
			}
		}

		sub, kind, err := findReusableSubscription(ctx, subs, account.ID, plan.ID, externalID)
		if err != nil {
			return err
		}
		if sub == nil {
			sub = &db_models.Subscription{}
			kind = "created"
		}
		sub.AccountID = account.ID
		sub.PlanID = &plan.ID
		sub.Plan = nil
		sub.ExternalID = externalID
		sub.Status = db_models.SubStatusActive
		sub.StartDate = today
		next := nextPaymentDate(today, plan.Interval)
		sub.NextPaymentDate = &next
		sub.EndDate = nil

		if kind == "created" {
			err = subs.Create(ctx, sub)
		} else {
			err = subs.Save(ctx, sub)
		}
		if err != nil {
			return err
		}

		metrics.SubscriptionTransitions.WithLabelValues(kind).Inc()
		logger.Info().Str("subscription_id", sub.ID.String()).Str("kind", kind).Msg("subscription webhook: subscription activated")
		return nil
	})
	if err != nil {
		return err
	}

	for _, oldExternalID := range retired {
		s.cancelAtProcessor(ctx, oldExternalID, logger)
	}
	return nil
}

// findReusableSubscription prefers the row already bound to externalID, then
// a canceled row of the same account and plan (in-place renewal).
func findReusableSubscription(ctx context.Context, subs repositories.SubscriptionRepository, accountID, planID uuid.UUID, externalID string) (*db_models.Subscription, string, error) {
	sub, err := subs.FindByExternalId(ctx, externalID)
	if err != nil || sub != nil {
		return sub, "reactivated", err
	}
	sub, err = subs.FindCanceledForPlan(ctx, accountID, planID)
	if err != nil || sub != nil {
		return sub, "renewed", err
	}
	return nil, "", nil
}

// retireOldSubscriptions closes the subscription(s) a plan switch replaces
// and returns the external ids that still have to be canceled at the processor.
func retireOldSubscriptions(
	ctx context.Context,
	subs repositories.SubscriptionRepository,
	accountID, newPlanID uuid.UUID,
	newExternalID string,
	meta map[string]string,
	today time.Time,
	logger zerolog.Logger,
) ([]string, error) {
	var toCancel []string
	oldSubID := meta[MetaOldSubscriptionID]
	oldExternalID := meta[MetaOldExternalID]

	if oldSubID != "" || oldExternalID != "" {
		var old *db_models.Subscription
		if id, err := uuid.Parse(oldSubID); err == nil {
			if old, err = subs.FindById(ctx, id); err != nil {
				return nil, err
			}
		}
		if old == nil && oldExternalID != "" {
			var err error
			if old, err = subs.FindByExternalId(ctx, oldExternalID); err != nil {
				return nil, err
			}
		}
		if old != nil && old.AccountID != accountID {
			logger.Warn().Str("old_subscription_id", old.ID.String()).Msg("subscription webhook: old subscription belongs to another account, left alone")
			old = nil
		}

		if oldExternalID == "" && old != nil {
			oldExternalID = old.ExternalID
		}
		if oldExternalID != "" && oldExternalID != newExternalID {
			toCancel = append(toCancel, oldExternalID)
		}
		if old == nil || old.ExternalID == newExternalID {
			return toCancel, nil
		}
		return toCancel, closeSubscription(ctx, subs, old, today, "switched_out", logger)
	}

	active, err := subs.ListActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		old := &active[i]
		if (old.PlanID != nil && *old.PlanID == newPlanID) || old.ExternalID == newExternalID {
			continue
		}
		if err := closeSubscription(ctx, subs, old, today, "switched_out", logger); err != nil {
			return nil, err
		}
		if old.ExternalID != "" {
			toCancel = append(toCancel, old.ExternalID)
		}
	}
	return toCancel, nil
}

func (s *SubscriptionWebhookService) cancelAtProcessor(ctx context.Context, externalID string, logger zerolog.Logger) {
	err := s.gateway.CancelSubscription(ctx, externalID)
	switch {
	case err == nil:
		logger.Info().Str("old_external_id", externalID).Msg("subscription webhook: old subscription canceled at processor")
	case errors.Is(err, utils.ErrProviderResourceMissing):
		logger.Info().Str("old_external_id", externalID).Msg("subscription webhook: old subscription already gone at processor")
	default:
		logger.Error().Err(err).Str("old_external_id", externalID).Msg("subscription webhook: could not cancel old subscription at processor")
	}
}

func closeSubscription(ctx context.Context, subs repositories.SubscriptionRepository, sub *db_models.Subscription, today time.Time, kind string, logger zerolog.Logger) error {
	sub.Status = db_models.SubStatusCanceled
	d := today
	sub.EndDate = &d
	sub.Plan = nil
	if err := subs.Save(ctx, sub); err != nil {
		return err
	}
	metrics.SubscriptionTransitions.WithLabelValues(kind).Inc()
	logger.Info().Str("subscription_id", sub.ID.String()).Str("kind", kind).Msg("subscription webhook: subscription closed")
	return nil
}

func (s *SubscriptionWebhookService) onSubscriptionDeleted(ctx context.Context, raw json.RawMessage, logger zerolog.Logger) error {
	var obj subscriptionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return pkgerrors.Wrap(utils.ErrInvalidWebhookPayload, err.Error())
	}
	today := utils.Today(s.now())

	return s.txManager.Execute(ctx, func(repos repositories.RepositoryFactory) error {
		subs := repos.Subscriptions()
		sub, err := subs.FindByExternalId(ctx, obj.ID)
		if err != nil {
			return err
		}
		if sub == nil {
			logger.Warn().Str("external_id", obj.ID).Msg("subscription webhook: deleted subscription is unknown locally")
			return nil
		}
		return closeSubscription(ctx, subs, sub, today, "deleted_upstream", logger)
	})
}

func (s *SubscriptionWebhookService) onSubscriptionUpdated(ctx context.Context, raw json.RawMessage, logger zerolog.Logger) error {
	var obj subscriptionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return pkgerrors.Wrap(utils.ErrInvalidWebhookPayload, err.Error())
	}
	logger = logger.With().Str("external_id", obj.ID).Str("processor_status", obj.Status).Logger()
	today := utils.Today(s.now())

	return s.txManager.Execute(ctx, func(repos repositories.RepositoryFactory) error {
		subs := repos.Subscriptions()
		sub, err := subs.FindByExternalId(ctx, obj.ID)
		if err != nil {
			return err
		}
		if sub == nil {
			logger.Warn().Msg("subscription webhook: updated subscription is unknown locally")
			return nil
		}

		switch obj.Status {
		case "active":
			sub.Status = db_models.SubStatusActive
			sub.EndDate = nil
		case "canceled", "incomplete_expired", "expired":
			sub.Status = db_models.SubStatusCanceled
			if sub.EndDate == nil {
				d := today
				sub.EndDate = &d
			}
		case "past_due":
			sub.Status = db_models.SubStatusPastDue
		default:
			logger.Debug().Msg("subscription webhook: status not mapped, ignored")
			return nil
		}

		sub.Plan = nil
		if err := subs.Save(ctx, sub); err != nil {
			return err
		}
		metrics.SubscriptionTransitions.WithLabelValues("updated_" + string(sub.Status)).Inc()
		logger.Info().Str("subscription_id", sub.ID.String()).Str("status", string(sub.Status)).Msg("subscription webhook: status updated")
		return nil
	})
}
