package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
// Progress lines (start, pacing delay, target path, completion) are info
// level and shown by default; -v adds per-record and state-transition
// debug output.
const (
	VerbosityDefault = 0 // No flags: progress and errors
	VerbosityDebug   = 1 // -v: + per-record and state-transition detail
	VerbosityQuiet   = -1
)

// VerbosityToLevel maps verbosity flags to zap log levels
//
// Mapping:
//
//	-1        -> WarnLevel  (used by subcommands that print their own output)
//	0 (none)  -> InfoLevel
//	1+ (-v)   -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity < VerbosityDefault:
		return zapcore.WarnLevel
	case verbosity == VerbosityDefault:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
