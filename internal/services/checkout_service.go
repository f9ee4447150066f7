package services

import (
	"context"
	"fmt"
	"strings"

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

// Checkout session metadata keys shared with the webhooks.
const (
	MetaCart              = "cart"
	MetaProductID         = "product_id"
	MetaUserID            = "user_id"
	MetaPlanID            = "plan_id"
	MetaSwitching         = "switching"
	MetaOldSubscriptionID = "old_subscription_id"
	MetaOldExternalID     = "old_external_id"

	// Stripe caps a metadata value at 500 characters.
	maxMetadataValueLength = 500
)

// StockShortageError reports the first cart line stock cannot cover. It
// matches utils.ErrInsufficientStock and its message is shown to the buyer.
type StockShortageError struct {
	ProductName string
	Available   int
}

func (e *StockShortageError) Error() string {
	if e.Available <= 0 {
		return fmt.Sprintf("Sorry, %s is out of stock.", e.ProductName)
	}
	return fmt.Sprintf("Not enough stock for %s. Only %d left.", e.ProductName, e.Available)
}

func (e *StockShortageError) Is(target error) bool {
	return target == utils.ErrInsufficientStock
}

type CheckoutServiceInterface interface {
	// Summary validates the cart for checkout: it must be non-empty and every
	// line must be covered by current stock.
	Summary(ctx context.Context, cart Cart) (*resp.CartResponse, error)
	StartCartCheckout(ctx context.Context, account *db_models.Account, cart Cart) (*CheckoutSession, error)
	StartProductCheckout(ctx context.Context, account *db_models.Account, productID uuid.UUID) (*CheckoutSession, error)
}

type CheckoutService struct {
	productRepo repositories.ProductRepository
	gateway     PaymentGateway
	baseURL     string
}

func NewCheckoutService(productRepo repositories.ProductRepository, gateway PaymentGateway, cfg *config.Config) CheckoutServiceInterface {
	return &CheckoutService{
		productRepo: productRepo,
		gateway:     gateway,
		baseURL:     strings.TrimRight(cfg.HTTP.BaseURL, "/"),
	}
}

func (s *CheckoutService) Summary(ctx context.Context, cart Cart) (*resp.CartResponse, error) {
	if cart.IsEmpty() {
		return nil, utils.ErrEmptyCart
	}
	view, err := buildCartView(ctx, s.productRepo, cart)
	if err != nil {
		return nil, err
	}
	for _, line := range view.Items {
		if line.Product.Stock < line.Quantity {
			return nil, &StockShortageError{ProductName: line.Product.Name, Available: line.Product.Stock}
		}
	}
	return view, nil
}

func (s *CheckoutService) StartCartCheckout(ctx context.Context, account *db_models.Account, cart Cart) (*CheckoutSession, error) {
	view, err := s.Summary(ctx, cart)
	if err != nil {
		return nil, err
	}

	encoded := cart.Encode()
	if len(encoded) > maxMetadataValueLength {
		return nil, pkgerrors.Wrap(utils.ErrInvalidInput, "cart has too many different products for one checkout")
	}

	items := make([]CheckoutLineItem, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, CheckoutLineItem{
			Name:       line.Product.Name,
			UnitAmount: db_models.ToCents(line.Product.Price),
			Quantity:   int64(line.Quantity),
		})
	}

	return s.createPaymentSession(ctx, account, items, map[string]string{
		MetaCart:   encoded,
		MetaUserID: account.ID.String(),
	})
}

func (s *CheckoutService) StartProductCheckout(ctx context.Context, account *db_models.Account, productID uuid.UUID) (*CheckoutSession, error) {
	product, err := s.productRepo.FindById(ctx, productID)
	if err != nil {
		return nil, utils.DBError("find product", err)
	}
	if product == nil {
		return nil, utils.ErrProductNotFound
	}
	if !product.InStock() {
		return nil, &StockShortageError{ProductName: product.Name}
	}

	items := []CheckoutLineItem{{
		Name:       product.Name,
		UnitAmount: product.PriceCents(),
		Quantity:   1,
	}}
	return s.createPaymentSession(ctx, account, items, map[string]string{
		MetaProductID: product.ID.String(),
		MetaUserID:    account.ID.String(),
	})
}

func (s *CheckoutService) createPaymentSession(ctx context.Context, account *db_models.Account, items []CheckoutLineItem, metadata map[string]string) (*CheckoutSession, error) {
	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		Mode:          CheckoutModePayment,
		CustomerEmail: account.Email,
		LineItems:     items,
		Metadata:      metadata,
		SuccessURL:    s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.baseURL + "/checkout/cancel",
	})
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues(string(CheckoutModePayment), "error").Inc()
		log.Error().Err(err).Str("account_id", account.ID.String()).Msg("create payment checkout session")
		return nil, err
	}

	metrics.CheckoutSessionsTotal.WithLabelValues(string(CheckoutModePayment), "created").Inc()
	log.Info().Str("account_id", account.ID.String()).Str("session_id", session.ID).Int("lines", len(items)).Msg("payment checkout session created")
	return session, nil
}
