package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is a coarse-grained risk level for a pattern or finding.
// Values are totally ordered: Low < Medium < High < Critical.
type Severity int

const (
	SevLow Severity = iota
	SevMedium
	SevHigh
	SevCritical
)

var severityNames = map[Severity]string{
	SevLow:      "LOW",
	SevMedium:   "MEDIUM",
	SevHigh:     "HIGH",
	SevCritical: "CRITICAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SEVERITY(%d)", int(s))
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SevLow, nil
	case "MEDIUM":
		return SevMedium, nil
	case "HIGH":
		return SevHigh, nil
	case "CRITICAL":
		return SevCritical, nil
	}
	return SevLow, fmt.Errorf("unknown severity %q (expected LOW, MEDIUM, HIGH or CRITICAL)", s)
}

// MarshalJSON renders the severity name rather than its numeric rank.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SourceKind identifies which enumerator produced a ScanUnit.
type SourceKind string

const (
	SourceWorktree SourceKind = "worktree"
	SourceStaged   SourceKind = "staged"
	SourceHistory  SourceKind = "history"
)

// ScanUnit is one logical piece of content to scan: a working-tree file, a
// staged index blob, or a historical blob. Units are produced lazily and
// discarded once scanned.
type ScanUnit struct {
	Kind   SourceKind
	Path   string // repo-root relative, forward slashes
	Commit string // commit hash, history units only
	Blob   string // content digest, set by the history enumerator
	Data   []byte
}

// ID is the scan-unit identifier used in reports: the path for
// worktree/staged units, commit:path for history units.
func (u ScanUnit) ID() string {
	if u.Commit != "" {
		return u.Commit + ":" + u.Path
	}
	return u.Path
}

// RawMatch is a single regex occurrence before suppression and threshold
// filtering have been applied.
type RawMatch struct {
	PatternID   string
	Description string
	Severity    Severity
	Unit        ScanUnit
	Start       int // byte offset of the match within the unit content
	End         int
	Line        int // 1-based line of Start
	Text        string
}

// Finding is a suppression-surviving, severity-qualifying match surfaced to
// the user. History findings collapse identical blob content across commits;
// Commits then lists every commit the content appears in.
type Finding struct {
	PatternID   string   `json:"pattern"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity"`
	Path        string   `json:"path"`
	Line        int      `json:"line"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Match       string   `json:"match"`
	Commits     []string `json:"commits,omitempty"`

	// Key collapses repeated occurrences of identical blob content across
	// history: pattern id + blob digest + byte offset.
	Key string `json:"-"`
}

// Warning records a recoverable per-unit failure (e.g. an unreadable file).
// Warnings are surfaced alongside findings but never affect the exit signal.
type Warning struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}
