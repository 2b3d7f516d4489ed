package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// Initialize with a safe no-op logger at package load time
	// This prevents nil pointer panics if logger is used before Initialize() is called
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. Logs always go to stderr: stdout
// belongs to query results.
func Initialize(jsonOutput bool, verbosity int) error {
	if os.Getenv("NO_COLOR") != "" {
		SetColor(false)
	}
	if theme := os.Getenv("VCQ_LOG_THEME"); theme != "" {
		SetTheme(theme)
	}

	zapLogger, err := build(os.Stderr, jsonOutput, verbosity)
	if err != nil {
		return err
	}

	JSONOutput = jsonOutput
	Logger = zapLogger.Sugar()
	return nil
}

// New returns a logger writing to w without touching the global one
func New(w io.Writer, jsonOutput bool, verbosity int) *zap.SugaredLogger {
	zapLogger, err := build(w, jsonOutput, verbosity)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return zapLogger.Sugar()
}

func build(w io.Writer, jsonOutput bool, verbosity int) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(VerbosityToLevel(verbosity))
	sink := zapcore.Lock(zapcore.AddSync(w))

	if jsonOutput {
		// JSON structured output for machine consumption
		config := zap.NewProductionEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(config), sink, level)), nil
	}

	// Human-readable console output with minimal, calm formatting
	return zap.New(zapcore.NewCore(newMinimalEncoder(), sink, level)), nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
