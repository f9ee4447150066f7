package community_fx

import (
	"fithub/internal/repositories"
	"fithub/internal/services"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	provideProgressRepo, provideNewsletterRepo, services.NewCommunityService,
)

func provideProgressRepo(db *gorm.DB) repositories.ProgressRepository {
	return repositories.NewProgressRepository(db)
}

func provideNewsletterRepo(db *gorm.DB) repositories.NewsletterRepository {
	return repositories.NewNewsletterRepository(db)
}
