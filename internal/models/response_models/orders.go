package response_models

import (
	"time"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemResponse struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	Status     string              `json:"status"`
	TotalCents int64               `json:"total_cents"`
	TotalEuros decimal.Decimal     `json:"total_euros"`
	ItemCount  int                 `json:"item_count"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items,omitempty"`
}

// NewOrderResponse maps an order; withItems adds the line breakdown.
func NewOrderResponse(o db_models.Order, withItems bool) OrderResponse {
	out := OrderResponse{
		ID:         o.ID,
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		TotalEuros: o.TotalEuros(),
		ItemCount:  o.ItemCount(),
		CreatedAt:  o.CreatedTime(),
	}
	if !withItems {
		return out
	}
	out.Items = make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		name := "Deleted product"
		if it.Product != nil {
			name = it.Product.Name
		}
		out.Items = append(out.Items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	return out
}
