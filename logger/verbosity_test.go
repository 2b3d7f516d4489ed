package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(0, OutputSummary))
	assert.True(t, ShouldOutput(0, OutputResults))
	assert.False(t, ShouldOutput(0, OutputSkipped))
	assert.True(t, ShouldOutput(1, OutputSkipped))
	assert.False(t, ShouldOutput(1, OutputTiming))
	assert.True(t, ShouldOutput(2, OutputTiming))
	assert.False(t, ShouldOutput(2, OutputMatches))
	assert.True(t, ShouldOutput(3, OutputMatches))

	// Unknown categories need maximum verbosity
	assert.False(t, ShouldOutput(2, OutputCategory(99)))
	assert.True(t, ShouldOutput(3, OutputCategory(99)))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-1))
	assert.Equal(t, "results and errors only", VerbosityDescription(0))
	assert.Equal(t, "maximum verbosity", VerbosityDescription(5))
}
