package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := NewWithConfig(Config{
		Level:          "info",
		Format:         "json",
		OutputPath:     path,
		ServiceName:    "users-api",
		ServiceVersion: "1.0.0",
		Environment:    "test",
	})
	require.NoError(t, err)

	l.Info("hello", zap.String("k", "v"))
	l.Debug("dropped")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"service":"users-api"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("nonsense"))
}

func TestWithContext_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("no id")
	WithContext(WithRequestID(context.Background(), "req-1"), base).Info("with id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "req-1", entries[1].ContextMap()["request_id"])
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	}

	t.Run("propagates incoming id", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "abc"))
		_, err := interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, "abc", seen)
	})

	t.Run("generates id", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, handler)
		require.NoError(t, err)
		assert.Len(t, seen, 36)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), 0.1, "warn")
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is not logged")

	gl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "gorm query error", logs.All()[0].Message)

	gl.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "gorm slow query", logs.All()[1].Message)

	gl.Trace(context.Background(), time.Now(), fc, gorm.ErrDuplicatedKey)
	require.Equal(t, 3, logs.Len())
	dup := logs.All()[2]
	assert.Equal(t, "gorm constraint violation", dup.Message)
	assert.Equal(t, zapcore.WarnLevel, dup.Level)

	gl.Trace(context.Background(), time.Now(), fc, nil)
	assert.Equal(t, 3, logs.Len(), "fast queries are not logged at warn")

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Equal(t, 3, logs.Len())
}

func TestGormLogger_TruncatesLongStatements(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), 0, "info")
	long := "SELECT " + strings.Repeat("x", 2000)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 0 }, nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "gorm query", entry.Message)
	assert.Len(t, entry.ContextMap()["sql"], maxSQLLength+3)
	assert.Equal(t, true, entry.ContextMap()["sql_truncated"])
}

func TestGormLogger_Printf(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), 0, "warn")

	gl.Info(context.Background(), "opened %s", "db")
	gl.Warn(context.Background(), "retrying %d", 2)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "retrying 2", logs.All()[0].Message)
}
