package db_models

import "github.com/google/uuid"

const FitnessGoalMaxLength = 100

type Profile struct {
	BaseModel
	AccountID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Bio         string    `gorm:"type:text"`
	FitnessGoal string    `gorm:"size:100"`
	AvatarKey   string
}
