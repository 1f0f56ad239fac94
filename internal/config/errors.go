package config

import "fmt"

// ConfigError is fatal: the run aborts before any scanning. It names the
// offending file and, where known, the key or pattern id so the user can fix
// the document directly.
type ConfigError struct {
	File    string // source document ("base config" for the embedded default)
	Key     string // offending top-level key or field, if known
	Pattern string // offending pattern id, if the error is inside a pattern entry
	Msg     string
	Err     error
}

func (e *ConfigError) Error() string {
	where := e.File
	if e.Pattern != "" {
		where += ": pattern " + e.Pattern
	} else if e.Key != "" {
		where += ": " + e.Key
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid config (%s): %s: %v", where, e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid config (%s): %s", where, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }
