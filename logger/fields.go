package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across hourgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID = "run_id"

	// Components
	FieldComponent = "component"

	// Operations
	FieldState = "state"
	FieldPath  = "path"

	// Target
	FieldTargetHour = "target_hour"
	FieldRecordID   = "record_id"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldIntervalMS = "interval_ms"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "error_kind"

	// Counts
	FieldCount = "count"
	FieldQuota = "quota"

	// Network
	FieldAddress = "address"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Emitter struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewEmitter() *Emitter {
//	    return &Emitter{logger: logger.ComponentLogger("emit")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	runLogger := logger.ChildLogger(base, logger.FieldRunID, runID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
