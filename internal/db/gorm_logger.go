package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	appLogger "github.com/ikkim/visitor-registration-backend/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger forwards gorm's SQL trace to the application logger.
type GormLogger struct {
	log           *zerolog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(l *appLogger.Logger, level logger.LogLevel) *GormLogger {
	return &GormLogger{
		log:           l.Zerolog(),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		g.log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		g.log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		g.log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		g.log.Error().Err(err).Str("component", "gorm").Str("sql", sql).
			Int64("rows", rows).Dur("elapsed", elapsed).Msg("SQL error")
	case elapsed > g.slowThreshold && g.level >= logger.Warn:
		g.log.Warn().Str("component", "gorm").Str("sql", sql).
			Int64("rows", rows).Dur("elapsed", elapsed).Msg("Slow SQL")
	case g.level >= logger.Info:
		g.log.Debug().Str("component", "gorm").Str("sql", sql).
			Int64("rows", rows).Dur("elapsed", elapsed).Msg("SQL")
	}
}
