package payment_service_fx

import (
	"fithub/config"
	"fithub/internal/repositories"
	"fithub/internal/services"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	providePaymentGateway, provideOrderRepo,
	services.NewCheckoutService, services.NewOrderService,
)

func providePaymentGateway(cfg *config.Config) services.PaymentGateway {
	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("stripe secret key is empty, checkout calls will fail")
	}
	return services.NewStripeGateway(cfg.Stripe)
}

func provideOrderRepo(db *gorm.DB) repositories.OrderRepository {
	return repositories.NewOrderRepository(db)
}
