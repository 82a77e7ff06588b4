// Package config builds the runtime configuration shared by the frontends.
package config

import (
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger returns a logger for the given options. Instruction tracing
// is logged at debug level and therefore turns it on.
func CreateLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case opts.Debug, opts.Trace:
		cfg.Level = log.DebugLevel
	case opts.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
