package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With(zap.String("company_id", "c-1"))

	log.Info("order created", zap.String("order_id", "o-1"))
	log.Debug("dropped")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "c-1", ctx["company_id"])
		assert.Equal(t, "o-1", ctx["order_id"])
	}
}
