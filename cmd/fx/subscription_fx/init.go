package subscription_fx

import (
	"fithub/internal/repositories"
	"fithub/internal/services"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	providePlanRepo, provideSubscriptionRepo,
	services.NewPlanService, services.NewSubscriptionWebhookService)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}
