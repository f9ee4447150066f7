package response_models

import (
	"time"

	"fithub/internal/models/db_models"

	"github.com/google/uuid"
)

type ProgressUpdateResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageKey  string    `json:"image_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsOwner   bool      `json:"is_owner"`
}

func NewProgressUpdateResponse(u db_models.ProgressUpdate, viewer uuid.UUID) ProgressUpdateResponse {
	return ProgressUpdateResponse{
		ID:        u.ID,
		Username:  u.Account.Username,
		Title:     u.Title,
		Content:   u.Content,
		ImageKey:  u.ImageKey,
		CreatedAt: u.CreatedTime(),
		IsOwner:   viewer != uuid.Nil && viewer == u.AccountID,
	}
}
