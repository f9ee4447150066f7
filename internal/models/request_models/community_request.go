package request_models

type ProgressUpdateRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=150"`
	Content string `json:"content" form:"content" validate:"required"`
}

type NewsletterRequest struct {
	Email string `json:"email" form:"email" validate:"required,email,max=254"`
}
