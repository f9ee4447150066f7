package services

import (
	"context"
	"strings"
	"time"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const recentProgressOnProfile = 5

type ProfileServiceInterface interface {
	GetProfilePage(ctx context.Context, accountID uuid.UUID) (*resp.ProfilePageResponse, error)
	// GetProfile creates the profile on first access.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*db_models.Profile, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, req request_models.ProfileRequest, avatar *Upload) (*db_models.Profile, error)
}

type ProfileService struct {
	accountRepo  repositories.AccountRepository
	profileRepo  repositories.ProfileRepository
	subRepo      repositories.SubscriptionRepository
	progressRepo repositories.ProgressRepository
	media        IMediaService
	now          func() time.Time
}

func NewProfileService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	subRepo repositories.SubscriptionRepository,
	progressRepo repositories.ProgressRepository,
	media IMediaService,
) ProfileServiceInterface {
	return &ProfileService{
		accountRepo:  accountRepo,
		profileRepo:  profileRepo,
		subRepo:      subRepo,
		progressRepo: progressRepo,
		media:        media,
		now:          time.Now,
	}
}

func (s *ProfileService) GetProfilePage(ctx context.Context, accountID uuid.UUID) (*resp.ProfilePageResponse, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, utils.DBError("find account", err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sub, err := s.subRepo.FindCurrent(ctx, accountID)
	if err != nil {
		return nil, utils.DBError("find current subscription", err)
	}

	updates, err := s.progressRepo.ListRecentByAccount(ctx, accountID, recentProgressOnProfile)
	if err != nil {
		return nil, utils.DBError("list recent progress", err)
	}

	today := utils.Today(s.now())
	page := &resp.ProfilePageResponse{
		Username: account.Username,
		Email:    account.Email,
		Profile: resp.ProfileResponse{
			Bio:         profile.Bio,
			FitnessGoal: profile.FitnessGoal,
			AvatarKey:   profile.AvatarKey,
		},
		Subscription:  resp.NewSubscriptionStatus(sub),
		RecentUpdates: make([]resp.ProgressUpdateResponse, 0, len(updates)),
		Today:         today.Format(resp.DateLayout),
	}
	for _, u := range updates {
		page.RecentUpdates = append(page.RecentUpdates, resp.NewProgressUpdateResponse(u, accountID))
	}
	if sub != nil && sub.IsActive() && sub.NextPaymentDate != nil {
		days := utils.DaysUntil(today, *sub.NextPaymentDate)
		page.DaysRemaining = &days
	}
	return page, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*db_models.Profile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, utils.DBError("get or create profile", err)
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, accountID uuid.UUID, req request_models.ProfileRequest, avatar *Upload) (*db_models.Profile, error) {
	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if avatar != nil {
		key, err := s.media.Save(ctx, "avatars", avatar)
		if err != nil {
			return nil, err
		}
		if previous := profile.AvatarKey; previous != "" {
			if err := s.media.Delete(ctx, previous); err != nil {
				log.Warn().Err(err).Str("key", previous).Msg("delete previous avatar")
			}
		}
		profile.AvatarKey = key
	}

	profile.Bio = strings.TrimSpace(req.Bio)
	profile.FitnessGoal = strings.TrimSpace(req.FitnessGoal)
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, utils.DBError("save profile", err)
	}
	return profile, nil
}
