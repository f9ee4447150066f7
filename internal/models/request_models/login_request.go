package request_models

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type SignUpRequest struct {
	Username        string `json:"username" form:"username" validate:"required,max=150"`
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" form:"first_name" validate:"max=150"`
	Password        string `json:"password1" form:"password1" validate:"required,min=8"`
	PasswordConfirm string `json:"password2" form:"password2" validate:"required,eqfield=Password"`
}
