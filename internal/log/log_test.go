package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLogger(tt.level)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.expected-1))
			}
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	logger, err := NewLogger("loud")
	assert.Error(t, err)
	assert.Nil(t, logger)
}
