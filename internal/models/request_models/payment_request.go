package request_models

// CartQuantityRequest carries the quantity posted to cart add/update.
// It stays a string so a malformed value can be reported instead of
// silently binding to zero.
type CartQuantityRequest struct {
	Quantity string `form:"quantity"`
}
