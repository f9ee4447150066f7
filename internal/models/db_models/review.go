package db_models

import "github.com/google/uuid"

type Review struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"type:text"`

	Account Account `gorm:"foreignKey:AccountID"`
}
