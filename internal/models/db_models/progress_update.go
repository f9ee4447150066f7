package db_models

import "github.com/google/uuid"

const ProgressTitleMaxLength = 150

type ProgressUpdate struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	Title     string    `gorm:"size:150;not null"`
	Content   string    `gorm:"type:text;not null"`
	ImageKey  string

	Account Account `gorm:"foreignKey:AccountID"`
}
