package storage

import (
	"context"
	"errors"
	"time"

	gormlogger "gorm.io/gorm/logger"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
)

// slowQuery 超过该耗时的 SQL 以 warn 级别记录。
const slowQuery = 200 * time.Millisecond

// sqlLogger sends gorm output through the request scoped logger, so SQL
// lines carry the same request_id and trace fields as the handler that
// issued them. Record-not-found is an expected outcome and never logged as
// an error.
type sqlLogger struct {
	level gormlogger.LogLevel
}

var _ gormlogger.Interface = sqlLogger{}

func (l sqlLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return sqlLogger{level: level}
}

func (l sqlLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		applogger.GetLogger(ctx).Infof(msg, data...)
	}
}

func (l sqlLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		applogger.GetLogger(ctx).Warnf(msg, data...)
	}
}

func (l sqlLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		applogger.GetLogger(ctx).Errorf(msg, data...)
	}
}

func (l sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	took := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)

	var emit func(string, ...any)
	log := applogger.GetLogger(ctx)
	switch {
	case failed && l.level >= gormlogger.Error:
		emit = log.Errorw
	case took > slowQuery && l.level >= gormlogger.Warn:
		emit = log.Warnw
	case l.level >= gormlogger.Info:
		emit = log.Infow
	default:
		return
	}

	sql, rows := fc()
	kv := []any{"sql", sql, "rows", rows, "took_ms", took.Milliseconds()}
	if failed {
		kv = append(kv, "error", err)
	}
	emit("sql", kv...)
}
