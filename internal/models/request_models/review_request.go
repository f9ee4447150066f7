package request_models

import "strconv"

type ReviewRequest struct {
	Rating  string `json:"rating" form:"rating" validate:"required,oneof=1 2 3 4 5"`
	Comment string `json:"comment" form:"comment"`
}

// RatingValue is only meaningful once the request validated.
func (r ReviewRequest) RatingValue() int {
	n, _ := strconv.Atoi(r.Rating)
	return n
}
