package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fithub/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"gocloud.dev/blob/memblob"
)

const (
	testOrderSecret        = "whsec_orders_test"
	testSubscriptionSecret = "whsec_subscriptions_test"
)

// mockPaymentGateway is a testify mock of PaymentGateway. Webhook parsing is
// delegated to a real Stripe gateway so tests exercise signature checks.
type mockPaymentGateway struct {
	mock.Mock
	parser PaymentGateway
}

func newMockPaymentGateway(t *testing.T) *mockPaymentGateway {
	m := &mockPaymentGateway{
		parser: NewStripeGateway(config.StripeConfig{
			OrderWebhookSecret:        testOrderSecret,
			SubscriptionWebhookSecret: testSubscriptionSecret,
		}),
	}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockPaymentGateway) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*CheckoutSession)
	return session, args.Error(1)
}

func (m *mockPaymentGateway) CancelSubscription(ctx context.Context, externalID string) error {
	return m.Called(ctx, externalID).Error(0)
}

func (m *mockPaymentGateway) ParseWebhook(endpoint WebhookEndpoint, payload []byte, signatureHeader string) (*PaymentEvent, error) {
	return m.parser.ParseWebhook(endpoint, payload, signatureHeader)
}

type mockMailSender struct {
	mock.Mock
}

func (m *mockMailSender) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// signedEvent builds a Stripe event envelope around object and signs it.
func signedEvent(t *testing.T, secret, eventType string, object any) (payload []byte, header string) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":          "evt_test",
		"object":      "event",
		"type":        eventType,
		"api_version": "2025-03-31.basil",
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   raw,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Payload, signed.Header
}

func newTestMedia(t *testing.T) IMediaService {
	t.Helper()
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	return NewMediaService(bucket)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.BaseURL = "http://shop.test"
	cfg.Payments.IdempotentWebhooks = true
	cfg.Stripe.Currency = "eur"
	return cfg
}
