package logging

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr's V().
const (
	DEFAULT = 2
	VERBOSE = 3
	DEBUG   = 4
	TRACE   = 5
)

// Options controls how New builds the zap backend.
type Options struct {
	// Verbosity is the highest logr V-level that is emitted.
	Verbosity int
	// Development switches to zap's console encoder and DPanic-panics.
	Development bool
}

// New builds a logr.Logger backed by zap.
//
//	log, err := logging.New(logging.Options{Verbosity: logging.DEBUG})
//	log.V(logging.DEBUG).Info("synthesized", "scope", "holiday")
func New(opts Options) (logr.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// zapr maps V(n) to zap level -n.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(int8(-opts.Verbosity)))

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(z), nil
}

// NewTestLogger creates a development logger that emits every level.
func NewTestLogger() logr.Logger {
	log, err := New(Options{Verbosity: TRACE, Development: true})
	if err != nil {
		return logr.Discard()
	}
	return log
}

// Fatal calls logger.Error followed by os.Exit(1).
//
// This is a utility function for main packages only.
func Fatal(logger logr.Logger, err error, msg string, keysAndValues ...any) {
	logger.Error(err, msg, keysAndValues...)
	os.Exit(1)
}
