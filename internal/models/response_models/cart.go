package response_models

import "github.com/shopspring/decimal"

type CartLineResponse struct {
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
	// Count is the number of distinct products in the cart.
	Count int `json:"count"`
}

type CartSizeResponse struct {
	CartSize int `json:"cart_size"`
}
