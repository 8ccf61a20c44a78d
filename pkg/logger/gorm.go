package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxSQLLength caps the statement text attached to a log entry.
const maxSQLLength = 1000

// GormLogger adapts zap to gormlogger.Interface.
type GormLogger struct {
	ZapLogger     *zap.Logger
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger writing through zap.
// Queries slower than slowQuerySeconds are logged as warnings.
func NewGormLogger(zapLogger *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	return &GormLogger{
		ZapLogger:     zapLogger.Named("gorm"),
		SlowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		LogLevel:      parseGormLevel(logLevel),
	}
}

func parseGormLevel(logLevel string) gormlogger.LogLevel {
	switch strings.ToLower(logLevel) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, enabled gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.LogLevel < enabled {
		return
	}
	if ce := WithContext(ctx, l.ZapLogger).Check(lvl, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write()
	}
}

// Trace logs one statement. Missing rows are expected and never logged;
// duplicate keys are reported to the client as conflicts, so they are warnings.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.SlowThreshold > 0 && elapsed > l.SlowThreshold

	var (
		lvl zapcore.Level
		msg string
	)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		lvl, msg = zapcore.WarnLevel, "gorm constraint violation"
	case err != nil:
		lvl, msg = zapcore.ErrorLevel, "gorm query error"
	case slow && l.LogLevel >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, "gorm slow query"
	case l.LogLevel >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "gorm query"
	default:
		return
	}

	ce := WithContext(ctx, l.ZapLogger).Check(lvl, msg)
	if ce == nil {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", truncateSQL(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if len(sql) > maxSQLLength {
		fields = append(fields, zap.Bool("sql_truncated", true))
	}
	if slow {
		fields = append(fields, zap.Duration("threshold", l.SlowThreshold))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

func truncateSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	return sql[:maxSQLLength] + "..."
}
