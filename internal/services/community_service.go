package services

import (
	"context"
	"strings"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CommunityServiceInterface interface {
	ListProgress(ctx context.Context, viewer uuid.UUID) ([]resp.ProgressUpdateResponse, error)
	CreateProgress(ctx context.Context, accountID uuid.UUID, req request_models.ProgressUpdateRequest, image *Upload) (*db_models.ProgressUpdate, error)
	// DeleteProgress answers ErrProgressNotFound unless accountID wrote the update.
	DeleteProgress(ctx context.Context, accountID, updateID uuid.UUID) error
	// Subscribe adds email to the newsletter; a repeat address is not an error.
	Subscribe(ctx context.Context, email string) (bool, error)
}

type CommunityService struct {
	progressRepo   repositories.ProgressRepository
	newsletterRepo repositories.NewsletterRepository
	media          IMediaService
}

func NewCommunityService(
	progressRepo repositories.ProgressRepository,
	newsletterRepo repositories.NewsletterRepository,
	media IMediaService,
) CommunityServiceInterface {
	return &CommunityService{
		progressRepo:   progressRepo,
		newsletterRepo: newsletterRepo,
		media:          media,
	}
}

func (s *CommunityService) ListProgress(ctx context.Context, viewer uuid.UUID) ([]resp.ProgressUpdateResponse, error) {
	updates, err := s.progressRepo.ListAll(ctx)
	if err != nil {
		return nil, utils.DBError("list progress updates", err)
	}
	out := make([]resp.ProgressUpdateResponse, 0, len(updates))
	for _, u := range updates {
		out = append(out, resp.NewProgressUpdateResponse(u, viewer))
	}
	return out, nil
}

func (s *CommunityService) CreateProgress(ctx context.Context, accountID uuid.UUID, req request_models.ProgressUpdateRequest, image *Upload) (*db_models.ProgressUpdate, error) {
	update := &db_models.ProgressUpdate{
		AccountID: accountID,
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
	}
	if image != nil {
		key, err := s.media.Save(ctx, "progress", image)
		if err != nil {
			return nil, err
		}
		update.ImageKey = key
	}

	if err := s.progressRepo.Create(ctx, update); err != nil {
		return nil, utils.DBError("create progress update", err)
	}
	log.Info().Str("progress_id", update.ID.String()).Str("account_id", accountID.String()).Msg("progress update posted")
	return update, nil
}

func (s *CommunityService) DeleteProgress(ctx context.Context, accountID, updateID uuid.UUID) error {
	deleted, err := s.progressRepo.DeleteOwned(ctx, updateID, accountID)
	if err != nil {
		return utils.DBError("delete progress update", err)
	}
	if !deleted {
		return utils.ErrProgressNotFound
	}
	return nil
}

func (s *CommunityService) Subscribe(ctx context.Context, email string) (bool, error) {
	created, err := s.newsletterRepo.Subscribe(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, utils.DBError("newsletter subscribe", err)
	}
	return created, nil
}
