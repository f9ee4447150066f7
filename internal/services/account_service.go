package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	"fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	// CreateAccount stores the account and its empty profile in one transaction.
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*db_models.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	txManager   repositories.TransactionManager
	tokens      *utils.TokenManager
	bcryptCost  int
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	txManager repositories.TransactionManager,
	tokens *utils.TokenManager,
	bcryptCost int,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		txManager:   txManager,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByUsername(ctx, strings.TrimSpace(request.Username))
	if err != nil {
		return nil, utils.DBError("find account by username", err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(a.tokens.TTL())
	token, err := a.tokens.CreateToken(account.ID, account.Role())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create token")
	}

	log.Debug().Dur("took", time.Since(startTime)).Str("account_id", account.ID.String()).Msg("login")

	return &response_models.AccountLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   response_models.NewAccountResponse(account),
	}, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*db_models.Account, error) {
	username := strings.TrimSpace(request.Username)

	existing, err := a.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, utils.DBError("find account by username", err)
	}
	if existing != nil {
		return nil, utils.ErrUsernameTaken
	}

	hashedPassword, err := utils.HashPassword(request.Password, a.bcryptCost)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	account := &db_models.Account{
		Username:     username,
		Email:        strings.TrimSpace(request.Email),
		FirstName:    strings.TrimSpace(request.FirstName),
		PasswordHash: hashedPassword,
	}

	err = a.txManager.Execute(ctx, func(repos repositories.RepositoryFactory) error {
		if err := repos.Accounts().Insert(ctx, account); err != nil {
			return err
		}
		return repos.Profiles().Insert(ctx, &db_models.Profile{AccountID: account.ID})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrUsernameTaken
		}
		return nil, utils.DBError("create account", err)
	}

	log.Info().Str("account_id", account.ID.String()).Str("username", account.Username).Msg("account created")
	return account, nil
}

func (a *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	account, err := a.accountRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DBError("find account", err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}
