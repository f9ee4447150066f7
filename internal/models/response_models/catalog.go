package response_models

import (
	"time"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	InStock     bool            `json:"in_stock"`
	ImageKey    string          `json:"image_key,omitempty"`
}

func NewProductResponse(p db_models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		ImageKey:    p.ImageKey,
	}
}

type CatalogResponse struct {
	Products []ProductResponse `json:"products"`
	Query    string            `json:"q,omitempty"`
	MinPrice string            `json:"min_price,omitempty"`
	MaxPrice string            `json:"max_price,omitempty"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	// IsOwner lets the viewer offer edit and delete links.
	IsOwner bool `json:"is_owner"`
}

func NewReviewResponse(r db_models.Review, viewer uuid.UUID) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		Username:  r.Account.Username,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedTime(),
		IsOwner:   viewer != uuid.Nil && viewer == r.AccountID,
	}
}

type ProductDetailResponse struct {
	Product ProductResponse  `json:"product"`
	Reviews []ReviewResponse `json:"reviews"`
}
