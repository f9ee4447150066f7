package infra

import (
	"fithub/internal/models/db_models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(db_models.All()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
