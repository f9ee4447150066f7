package response_models

import (
	"time"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
)

type AccountLoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Account   *AccountResponse `json:"account"`
}

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	IsStaff   bool      `json:"is_staff"`
}

func NewAccountResponse(a *db_models.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		IsStaff:   a.IsStaff,
	}
}
