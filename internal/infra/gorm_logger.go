package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultGormSlowThreshold = 200 * time.Millisecond

type gormZerologLogger struct {
	level                      logger.LogLevel
	slowThreshold              time.Duration
	ignoreRecordNotFoundErrors bool
}

func NewGormLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	return &gormZerologLogger{
		level:                      level,
		slowThreshold:              defaultGormSlowThreshold,
		ignoreRecordNotFoundErrors: true,
	}
}

func (l *gormZerologLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level < logger.Info {
		return
	}
	log.Ctx(ctx).Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
}

func (l *gormZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level < logger.Warn {
		return
	}
	log.Ctx(ctx).Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
}

func (l *gormZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level < logger.Error {
		return
	}
	log.Ctx(ctx).Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
}

func (l *gormZerologLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !(l.ignoreRecordNotFoundErrors && errors.Is(err, gorm.ErrRecordNotFound)):
		l.query(log.Ctx(ctx).Error().Err(err), sqlAndRowsFn, elapsed).Msg("GORM query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.query(log.Ctx(ctx).Warn().Dur("slow_threshold", l.slowThreshold), sqlAndRowsFn, elapsed).Msg("GORM slow query")
	case l.level >= logger.Info:
		l.query(log.Ctx(ctx).Debug(), sqlAndRowsFn, elapsed).Msg("GORM query")
	}
}

func (l *gormZerologLogger) query(event *zerolog.Event, sqlAndRowsFn func() (string, int64), elapsed time.Duration) *zerolog.Event {
	sql, rows := sqlAndRowsFn()
	return event.Str("component", "gorm").Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql)
}
