package account_fx

import (
	"fithub/config"
	"fithub/internal/repositories"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideProfileRepo, provideTokenManager, provideProfileService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	return repositories.NewProfileRepository(db)
}

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	txManager repositories.TransactionManager,
	tokens *utils.TokenManager,
	cfg *config.Config,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, txManager, tokens, cfg.Auth.BcryptCost)
}

func provideProfileService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	subRepo repositories.SubscriptionRepository,
	progressRepo repositories.ProgressRepository,
	media services.IMediaService,
) services.ProfileServiceInterface {
	return services.NewProfileService(accountRepo, profileRepo, subRepo, progressRepo, media)
}
