package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusCanceled SubscriptionStatus = "canceled"
	SubStatusPastDue  SubscriptionStatus = "past_due"
)

type Subscription struct {
	BaseModel
	AccountID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	PlanID     *uuid.UUID `gorm:"type:uuid;index"`
	ExternalID string     `gorm:"size:100;uniqueIndex;not null"`

	Status          SubscriptionStatus `gorm:"size:10;index;default:'active'"`
	StartDate       time.Time          `gorm:"type:date;not null"`
	EndDate         *time.Time         `gorm:"type:date"`
	NextPaymentDate *time.Time         `gorm:"type:date"`

	Account Account `gorm:"foreignKey:AccountID"`
	Plan    *Plan   `gorm:"foreignKey:PlanID;constraint:OnDelete:SET NULL"`
}

func (s Subscription) IsActive() bool {
	return s.Status == SubStatusActive
}
