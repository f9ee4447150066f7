package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel keeps unix-second timestamps; gorm fills them on create/update.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt int64          `gorm:"autoCreateTime"`
	UpdatedAt int64          `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b BaseModel) CreatedTime() time.Time {
	return time.Unix(b.CreatedAt, 0).UTC()
}

func (b BaseModel) UpdatedTime() time.Time {
	return time.Unix(b.UpdatedAt, 0).UTC()
}
