package motemplate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "[WARN] warn message")
	assert.Contains(t, out, "[ERROR] error message")
}

func TestLoggerOff(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogOff)

	logger.Error("should not appear")
	assert.Empty(t, buf.String())
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo).WithField("template", "greeting.txt")

	logger.Info("compiled")
	assert.Contains(t, buf.String(), "template=greeting.txt")
}

func TestLoggerNilWriter(t *testing.T) {
	logger := NewLogger(nil, LogInfo)
	assert.NotPanics(t, func() { logger.Info("discarded") })
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogDebug},
		{"info", LogInfo},
		{"warn", LogWarn},
		{"error", LogError},
		{"off", LogOff},
		{"unknown", LogInfo},
		{"", LogInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), "input %q", tt.input)
	}
}
