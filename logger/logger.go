// Package logger holds hourgen's process-wide structured logger.
//
// Packages obtain named loggers with ComponentLogger; the CLI calls
// Initialize once flags and config are known. Until then every logger is a
// no-op, so library code and tests can log freely.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Options configure Initialize.
type Options struct {
	JSON      bool                // zap production JSON instead of the console format
	Verbosity int                 // CLI -v count, see VerbosityToLevel
	Theme     string              // Console color theme: everforest, gruvbox
	Output    zapcore.WriteSyncer // Defaults to stdout
}

// Initialize replaces the global logger. Loggers obtained earlier through
// ComponentLogger keep writing to the old core.
func Initialize(opts Options) error {
	out := opts.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = newMinimalEncoder()
	}

	core := zapcore.NewCore(enc, out, VerbosityToLevel(opts.Verbosity))
	Logger = zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))).Sugar()
	return nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
