// Package patterns compiles the effective configuration's detection and
// suppression regexes into the run's read-only registry. Compilation happens
// once per run; a pattern that fails to compile fails the whole run, because
// a silently dropped detection pattern is a security regression.
package patterns

import (
	"regexp"

	"github.com/secret-squirrel/ssq/internal/config"
	"github.com/secret-squirrel/ssq/internal/types"
)

// Compiled is one detection pattern ready for occurrence search.
type Compiled struct {
	ID          string
	Description string
	Severity    types.Severity
	Regex       *regexp.Regexp
}

// Registry holds every compiled detection pattern plus the compiled
// suppression (ignore) patterns. It is immutable after Compile and safe for
// concurrent use by scan workers.
type Registry struct {
	patterns []Compiled
	ignores  []*regexp.Regexp
}

// Compile builds the registry from a resolved configuration.
func Compile(cfg *config.Config) (*Registry, error) {
	reg := &Registry{patterns: make([]Compiled, 0, len(cfg.Patterns))}
	for _, p := range cfg.SortedPatterns() {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, &config.ConfigError{File: "effective config", Pattern: p.ID, Msg: "invalid regex", Err: err}
		}
		reg.patterns = append(reg.patterns, Compiled{
			ID:          p.ID,
			Description: p.Description,
			Severity:    p.Severity,
			Regex:       re,
		})
	}
	for _, raw := range cfg.IgnorePatterns {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, &config.ConfigError{File: "effective config", Key: "ignore_patterns", Msg: "invalid regex", Err: err}
		}
		reg.ignores = append(reg.ignores, re)
	}
	return reg, nil
}

// Patterns returns the compiled detection patterns in id order.
func (r *Registry) Patterns() []Compiled { return r.patterns }

// Suppressed reports whether a matched substring is covered by any ignore
// pattern. Suppression is evaluated against the matched text itself, not the
// surrounding line or file.
func (r *Registry) Suppressed(text string) bool {
	for _, re := range r.ignores {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
