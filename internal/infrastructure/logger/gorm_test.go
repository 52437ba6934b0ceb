package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
	ctx := context.Background()

	l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
	assert.Equal(t, 0, logs.Len(), "fast query below info level is silent")

	l.Trace(ctx, time.Now(), sqlFn("SELECT * FROM orders", 0), gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is silent")

	l.Trace(ctx, time.Now(), sqlFn("INSERT", 0), errors.New("duplicate key value"))
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())

	l.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT pg_sleep(1)", 1), nil)
	assert.Equal(t, 1, logs.FilterMessage("slow query").Len())
}

func TestGormLogger_InfoLevelLogsEveryStatement(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Silent).LogMode(gormlogger.Info)

	l.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), nil)
	assert.Equal(t, 1, logs.FilterMessage("query").Len())
}

func TestGormLogger_UsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.NewNop(), gormlogger.Error)
	ctx := WithRequestID(context.Background(), zap.New(core), "req-3")

	l.Trace(ctx, time.Now(), sqlFn("UPDATE", 0), errors.New("deadlock"))
	assert.Equal(t, "req-3", logs.All()[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
}
