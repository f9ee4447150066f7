package infra

import (
	"fithub/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitPostgresql(cfg *config.Config) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), GormConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	if cfg.Postgres.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	}
	if cfg.Postgres.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	}
	if cfg.Postgres.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}

	return connectionPool, nil
}

// GormConfig is shared by the postgres pool and the sqlite test databases.
func GormConfig(cfg *config.Config) *gorm.Config {
	debug := cfg != nil && cfg.Env.Debug
	return &gorm.Config{
		Logger:         NewGormLogger(debug),
		TranslateError: true,
	}
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("get database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("close database connection")
	} else {
		log.Info().Msg("PostgreSQL database connection closed")
	}
}
