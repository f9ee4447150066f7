package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsletterSubscriber struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}

func (n *NewsletterSubscriber) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
