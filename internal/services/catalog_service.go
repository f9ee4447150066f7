package services

import (
	"context"

	"fithub/internal/models/db_models"
	resp "fithub/internal/models/response_models"
	"fithub/internal/repositories"
	"fithub/pkg/utils"

	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]resp.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*db_models.Product, error)
	// GetProductDetail returns the product with its reviews, newest first.
	GetProductDetail(ctx context.Context, id, viewer uuid.UUID) (*resp.ProductDetailResponse, error)
}

type CatalogService struct {
	productRepo repositories.ProductRepository
	reviewRepo  repositories.ReviewRepository
}

func NewCatalogService(productRepo repositories.ProductRepository, reviewRepo repositories.ReviewRepository) CatalogServiceInterface {
	return &CatalogService{productRepo: productRepo, reviewRepo: reviewRepo}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]resp.ProductResponse, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, utils.DBError("list products", err)
	}
	out := make([]resp.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, resp.NewProductResponse(p))
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*db_models.Product, error) {
	product, err := s.productRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DBError("find product", err)
	}
	if product == nil {
		return nil, utils.ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) GetProductDetail(ctx context.Context, id, viewer uuid.UUID) (*resp.ProductDetailResponse, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, utils.DBError("list reviews", err)
	}

	out := &resp.ProductDetailResponse{
		Product: resp.NewProductResponse(*product),
		Reviews: make([]resp.ReviewResponse, 0, len(reviews)),
	}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, resp.NewReviewResponse(r, viewer))
	}
	return out, nil
}
