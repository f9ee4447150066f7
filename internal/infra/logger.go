package infra

import (
	"os"
	"strings"
	"time"

	"fithub/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger from config.
func InitLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Env.Log.Level)))
	if err != nil || cfg.Env.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Env.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	log.Logger = log.Logger.With().Str("service", cfg.Env.ServiceName).Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return log.Logger
}
