package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"fithub/config"
	"fithub/pkg/utils"

	pkgerrors "github.com/pkg/errors"
	"github.com/stripe/stripe-go/v82"
	stripesession "github.com/stripe/stripe-go/v82/checkout/session"
	stripesub "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

type CheckoutMode string

const (
	CheckoutModePayment      CheckoutMode = "payment"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

// WebhookEndpoint selects which signing secret verifies a delivery.
type WebhookEndpoint string

const (
	WebhookOrders        WebhookEndpoint = "orders"
	WebhookSubscriptions WebhookEndpoint = "subscriptions"
)

// Stripe event types handled by the two webhook endpoints.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventSubscriptionUpdated      = "customer.subscription.updated"
)

type CheckoutLineItem struct {
	Name       string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

type CheckoutSessionRequest struct {
	Mode          CheckoutMode
	CustomerEmail string
	LineItems     []CheckoutLineItem
	// PriceID is the recurring price used in subscription mode.
	PriceID    string
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentEvent is a verified webhook delivery. Object is the raw JSON of
// event.data.object; its shape depends on Type.
type PaymentEvent struct {
	ID     string
	Type   string
	Object json.RawMessage
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	// CancelSubscription returns utils.ErrProviderResourceMissing when the
	// processor no longer knows the subscription.
	CancelSubscription(ctx context.Context, externalID string) error
	ParseWebhook(endpoint WebhookEndpoint, payload []byte, signatureHeader string) (*PaymentEvent, error)
}

type stripeGateway struct {
	cfg config.StripeConfig

	createCheckoutSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	cancelSubscription    func(id string, params *stripe.SubscriptionCancelParams) (*stripe.Subscription, error)
}

func NewStripeGateway(cfg config.StripeConfig) PaymentGateway {
	stripe.Key = strings.TrimSpace(cfg.SecretKey)
	return &stripeGateway{
		cfg:                   cfg,
		createCheckoutSession: stripesession.New,
		cancelSubscription:    stripesub.Cancel,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(req.Mode)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   req.Metadata,
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	switch req.Mode {
	case CheckoutModeSubscription:
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}}
		// Subscription objects keep the metadata so later events can be traced.
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: req.Metadata,
		}
	default:
		for _, item := range req.LineItems {
			params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(item.Name),
					},
					UnitAmount: stripe.Int64(item.UnitAmount),
				},
				Quantity: stripe.Int64(item.Quantity),
			})
		}
	}

	sess, err := g.createCheckoutSession(params)
	if err != nil {
		return nil, mapStripeError(err, "create checkout session")
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) CancelSubscription(ctx context.Context, externalID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := g.cancelSubscription(externalID, params); err != nil {
		return mapStripeError(err, "cancel subscription "+externalID)
	}
	return nil
}

func (g *stripeGateway) ParseWebhook(endpoint WebhookEndpoint, payload []byte, signatureHeader string) (*PaymentEvent, error) {
	secret := g.cfg.OrderWebhookSecret
	if endpoint == WebhookSubscriptions {
		secret = g.cfg.SubscriptionWebhookSecret
	}
	if strings.TrimSpace(secret) == "" {
		return nil, pkgerrors.Wrapf(utils.ErrInvalidWebhookSignature, "no signing secret configured for %s", endpoint)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(utils.ErrInvalidWebhookSignature, err.Error())
	}
	if event.Data == nil {
		return nil, pkgerrors.Wrap(utils.ErrInvalidWebhookPayload, "event has no data")
	}

	return &PaymentEvent{
		ID:     event.ID,
		Type:   string(event.Type),
		Object: event.Data.Raw,
	}, nil
}

func mapStripeError(err error, op string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return pkgerrors.Wrap(utils.ErrProviderResourceMissing, op)
	}
	return pkgerrors.Wrapf(utils.ErrPaymentProvider, "%s: %v", op, err)
}

// ---------------- webhook payload shapes ----------------

// checkoutSessionObject is the subset of a Stripe Checkout Session we read.
type checkoutSessionObject struct {
	ID              string            `json:"id"`
	Mode            string            `json:"mode"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata"`
	Subscription    expandableID      `json:"subscription"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

type subscriptionObject struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

// expandableID accepts either "sub_123" or {"id":"sub_123",...}.
type expandableID string

func (e *expandableID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*e = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = expandableID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*e = expandableID(obj.ID)
	return nil
}
