package core

import (
	"context"

	"github.com/secret-squirrel/ssq/internal/config"
	"github.com/secret-squirrel/ssq/internal/engine"
	"github.com/secret-squirrel/ssq/internal/types"
)

// Re-export selected internal types as a stable public API surface. These are
// type aliases so external consumers can depend on a stable path; they can be
// replaced with decoupled structs later without breaking callers.
type (
	Config   = config.Config
	Options  = engine.Options
	Result   = engine.Result
	Finding  = types.Finding
	Warning  = types.Warning
	Severity = types.Severity
	Mode     = engine.Mode
)

const (
	ModeWorktree = engine.ModeWorktree
	ModeStaged   = engine.ModeStaged
	ModeHistory  = engine.ModeHistory
)

// LoadConfig resolves the layered configuration for a repository root.
// basePath overrides the embedded base document when non-empty.
func LoadConfig(root, basePath string) (*Config, error) {
	return config.Load(root, basePath)
}

// Scan is the stable entrypoint for other programs.
func Scan(ctx context.Context, opts Options) (*Result, error) {
	return engine.Scan(ctx, opts)
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	return types.ParseSeverity(s)
}

// PatternIDs returns the effective pattern ids for a configuration, in order.
func PatternIDs(cfg *Config) []string {
	res := cfg.SortedPatterns()
	ids := make([]string, len(res))
	for i, p := range res {
		ids[i] = p.ID
	}
	return ids
}
