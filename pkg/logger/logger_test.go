package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { level.SetLevel(zapcore.InfoLevel) })

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	assert.Error(t, SetLevel("loud"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger())
	assert.NotPanics(t, func() {
		Info("test message", "key", "value")
		Debug("test message")
	})
}

func TestPanic(t *testing.T) {
	assert.Panics(t, func() { Panic("config missing", "key", "value") })
}
