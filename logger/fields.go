package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across vcq.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldQuery    = "query"
	FieldMiscType = "misc_type"
	FieldSortKey  = "sort_key"

	FieldFile   = "file"
	FieldLine   = "line"
	FieldReason = "reason"

	FieldScanned  = "scanned"
	FieldMatched  = "matched"
	FieldSkipped  = "skipped"
	FieldCapacity = "capacity"

	FieldDurationMS = "duration_ms"
	FieldVerbosity  = "verbosity"
	FieldError      = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	func NewScanner(r io.Reader) *Scanner {
//	    return &Scanner{
//	        logger: logger.ComponentLogger("vcard"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	if Logger == nil {
		return zap.NewNop().Sugar().Named(name)
	}
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	queryLogger := logger.ChildLogger(base, logger.FieldQuery, opts.Query)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
