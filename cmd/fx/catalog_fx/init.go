package catalog_fx

import (
	"fithub/internal/repositories"
	"fithub/internal/services"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	provideProductRepo, provideReviewRepo,
	services.NewCatalogService, services.NewReviewService, services.NewCartService)

func provideProductRepo(db *gorm.DB) repositories.ProductRepository {
	return repositories.NewProductRepository(db)
}

func provideReviewRepo(db *gorm.DB) repositories.ReviewRepository {
	return repositories.NewReviewRepository(db)
}
