// Package logging holds the process-wide zap logger. The CLI initializes it
// once; library code fetches it through L so an uninitialized logger is a
// no-op rather than a nil dereference.
package logging

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// Init configures the logger. Verbose selects the development config with
// debug-level output; otherwise only warnings and errors are emitted.
func Init(verbose bool) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	l, err := cfg.Build()
	if err != nil {
		panic("logger init: " + err.Error())
	}
	logger = l.Sugar()
}

// L returns the configured logger.
func L() *zap.SugaredLogger { return logger }
