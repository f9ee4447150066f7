package services

import (
	"context"
	"encoding/json"

	"fithub/config"
	"fithub/internal/metrics"
	"fithub/internal/models/db_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type OrderServiceInterface interface {
	ListOrders(ctx context.Context, accountID uuid.UUID) ([]resp.OrderResponse, error)
	GetOrder(ctx context.Context, accountID, orderID uuid.UUID) (*resp.OrderResponse, error)
	// HandleWebhook verifies and applies one delivery to the order webhook.
	// It returns the event type for metrics even when it fails after parsing.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error)
}

type OrderService struct {
	orderRepo   repositories.OrderRepository
	accountRepo repositories.AccountRepository
	txManager   repositories.TransactionManager
	gateway     PaymentGateway
	mail        IMailService
	idempotent  bool
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	accountRepo repositories.AccountRepository,
	txManager repositories.TransactionManager,
	gateway PaymentGateway,
	mail IMailService,
	cfg *config.Config,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		gateway:     gateway,
		mail:        mail,
		idempotent:  cfg.Payments.IdempotentWebhooks,
	}
}

func (s *OrderService) ListOrders(ctx context.Context, accountID uuid.UUID) ([]resp.OrderResponse, error) {
	orders, err := s.orderRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.DBError("list orders", err)
	}
	out := make([]resp.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, resp.NewOrderResponse(o, false))
	}
	return out, nil
}

func (s *OrderService) GetOrder(ctx context.Context, accountID, orderID uuid.UUID) (*resp.OrderResponse, error) {
	order, err := s.orderRepo.FindByIdForAccount(ctx, orderID, accountID)
	if err != nil {
		return nil, utils.DBError("find order", err)
	}
	if order == nil {
		return nil, utils.ErrOrderNotFound
	}
	out := resp.NewOrderResponse(*order, true)
	return &out, nil
}

// fulfillmentLine is one product/quantity pair taken from session metadata.
type fulfillmentLine struct {
	productID uuid.UUID
	quantity  int
}

func (s *OrderService) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	event, err := s.gateway.ParseWebhook(WebhookOrders, payload, signature)
	if err != nil {
		return "", err
	}
	logger := log.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	if event.Type != EventCheckoutSessionCompleted {
		logger.Debug().Msg("order webhook: event ignored")
		return event.Type, nil
	}

	var session checkoutSessionObject
	if err := json.Unmarshal(event.Object, &session); err != nil {
		return event.Type, pkgerrors.Wrap(utils.ErrInvalidWebhookPayload, err.Error())
	}
	logger = logger.With().Str("session_id", session.ID).Logger()

	lines, err := linesFromMetadata(session.Metadata)
	if err != nil {
		return event.Type, err
	}
	if lines == nil {
		logger.Info().Msg("order webhook: session carries neither cart nor product, ignored")
		return event.Type, nil
	}

	accountID, err := uuid.Parse(session.Metadata[MetaUserID])
	if err != nil {
		return event.Type, pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "bad user_id %q", session.Metadata[MetaUserID])
	}
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return event.Type, utils.DBError("find account", err)
	}
	if account == nil {
		return event.Type, pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "unknown account %s", accountID)
	}

	var order *db_models.Order
	err = s.txManager.Execute(ctx, func(repos repositories.RepositoryFactory) error {
		if s.idempotent {
			exists, err := repos.Orders().ExistsForPaymentSession(ctx, session.ID)
			if err != nil {
				return err
			}
			if exists {
				logger.Info().Msg("order webhook: session already fulfilled, skipping")
				return nil
			}
		}

		built, err := buildOrder(ctx, repos.Products(), account.ID, lines, logger)
		if err != nil || built == nil {
			return err
		}
		built.PaymentSessionID = session.ID
		if meta, err := json.Marshal(session.Metadata); err == nil {
			built.Metadata = datatypes.JSON(meta)
		}
		if err := repos.Orders().Create(ctx, built); err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		return event.Type, utils.DBError("fulfill order", err)
	}
	if order == nil {
		return event.Type, nil
	}

	logger.Info().
		Str("order_id", order.ID.String()).
		Int64("total_cents", order.TotalCents).
		Int("items", len(order.Items)).
		Msg("order webhook: order created")

	if err := s.mail.SendOrderConfirmation(account, order); err != nil {
		return event.Type, err
	}
	return event.Type, nil
}

// linesFromMetadata returns nil lines when the session is not one of ours.
func linesFromMetadata(metadata map[string]string) ([]fulfillmentLine, error) {
	if raw, ok := metadata[MetaCart]; ok {
		cart, err := DecodeCart(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(utils.ErrInvalidWebhookPayload, err.Error())
		}
		lines := make([]fulfillmentLine, 0, cart.Size())
		for _, id := range cart.ProductIDs() {
			lines = append(lines, fulfillmentLine{productID: id, quantity: cart[id]})
		}
		return lines, nil
	}
	if raw, ok := metadata[MetaProductID]; ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrapf(utils.ErrInvalidWebhookPayload, "bad product_id %q", raw)
		}
		return []fulfillmentLine{{productID: id, quantity: 1}}, nil
	}
	return nil, nil
}

// buildOrder snapshots prices and decrements stock for every line that can be
// served. Lines for missing products or short stock are dropped with a
// warning. It returns nil when no line survived.
func buildOrder(ctx context.Context, products repositories.ProductRepository, accountID uuid.UUID, lines []fulfillmentLine, logger zerolog.Logger) (*db_models.Order, error) {
	order := &db_models.Order{
		AccountID: accountID,
		Status:    db_models.OrderStatusPaid,
	}

	for _, line := range lines {
		product, err := products.FindById(ctx, line.productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			metrics.FulfillmentLinesSkipped.WithLabelValues("missing_product").Inc()
			logger.Warn().Str("product_id", line.productID.String()).Msg("order webhook: product no longer exists, line skipped")
			continue
		}
		if product.Stock < line.quantity {
			metrics.FulfillmentLinesSkipped.WithLabelValues("insufficient_stock").Inc()
			logger.Warn().
				Str("product_id", product.ID.String()).
				Int("stock", product.Stock).
				Int("requested", line.quantity).
				Msg("order webhook: not enough stock, line skipped")
			continue
		}
		ok, err := products.DecrementStock(ctx, product.ID, line.quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.FulfillmentLinesSkipped.WithLabelValues("insufficient_stock").Inc()
			logger.Warn().Str("product_id", product.ID.String()).Msg("order webhook: stock changed underneath, line skipped")
			continue
		}

		productID := product.ID
		order.Items = append(order.Items, db_models.OrderItem{
			ProductID: &productID,
			Quantity:  line.quantity,
			UnitPrice: product.Price,
		})
		order.TotalCents += product.PriceCents() * int64(line.quantity)
	}

	if len(order.Items) == 0 {
		logger.Warn().Msg("order webhook: no line could be fulfilled, no order written")
		return nil, nil
	}
	return order, nil
}
