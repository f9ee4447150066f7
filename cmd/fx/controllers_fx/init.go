package controllers_fx

import (
	"fithub/internal/api/controllers"
	"fithub/internal/api/router"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewCatalogController),
	fx.Provide(controllers.NewReviewController),
	fx.Provide(controllers.NewCartController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewOrderController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewProfileController),
	fx.Provide(controllers.NewCommunityController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(router.NewRouter))
