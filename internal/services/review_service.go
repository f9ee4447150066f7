package services

import (
	"context"
	"strings"

	"fithub/internal/models/db_models"
	"fithub/internal/models/request_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReviewServiceInterface interface {
	// Submit assumes the request already passed form validation.
	Submit(ctx context.Context, accountID, productID uuid.UUID, req request_models.ReviewRequest) (*db_models.Review, error)
	// GetOwned answers ErrReviewNotFound for reviews written by someone else.
	GetOwned(ctx context.Context, accountID, reviewID uuid.UUID) (*db_models.Review, error)
	Update(ctx context.Context, accountID, reviewID uuid.UUID, req request_models.ReviewRequest) (*db_models.Review, error)
	// Delete returns the product the review belonged to.
	Delete(ctx context.Context, accountID, reviewID uuid.UUID) (uuid.UUID, error)
}

type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) ReviewServiceInterface {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (s *ReviewService) Submit(ctx context.Context, accountID, productID uuid.UUID, req request_models.ReviewRequest) (*db_models.Review, error) {
	product, err := s.productRepo.FindById(ctx, productID)
	if err != nil {
		return nil, utils.DBError("find product", err)
	}
	if product == nil {
		return nil, utils.ErrProductNotFound
	}

	review := &db_models.Review{
		AccountID: accountID,
		ProductID: productID,
		Rating:    req.RatingValue(),
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, utils.DBError("create review", err)
	}

	log.Info().Str("review_id", review.ID.String()).Str("product_id", productID.String()).Int("rating", review.Rating).Msg("review submitted")
	return review, nil
}

func (s *ReviewService) GetOwned(ctx context.Context, accountID, reviewID uuid.UUID) (*db_models.Review, error) {
	review, err := s.reviewRepo.FindOwned(ctx, reviewID, accountID)
	if err != nil {
		return nil, utils.DBError("find review", err)
	}
	if review == nil {
		return nil, utils.ErrReviewNotFound
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, accountID, reviewID uuid.UUID, req request_models.ReviewRequest) (*db_models.Review, error) {
	review, err := s.GetOwned(ctx, accountID, reviewID)
	if err != nil {
		return nil, err
	}
	review.Rating = req.RatingValue()
	review.Comment = strings.TrimSpace(req.Comment)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, utils.DBError("update review", err)
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, accountID, reviewID uuid.UUID) (uuid.UUID, error) {
	review, err := s.GetOwned(ctx, accountID, reviewID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		return uuid.Nil, utils.DBError("delete review", err)
	}
	return review.ProductID, nil
}
