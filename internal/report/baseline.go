package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/secret-squirrel/ssq/internal/types"
)

// Baseline is the accepted-findings file. Entries are fingerprints, not raw
// matches, so the baseline never stores secret material.
type Baseline struct {
	Version int             `json:"version"`
	Items   map[string]bool `json:"items"`
}

// Fingerprint identifies a finding across runs: same path, same pattern, same
// matched text. Line numbers are deliberately excluded so unrelated edits
// above a finding do not invalidate the baseline entry.
func Fingerprint(f types.Finding) string {
	h := xxhash.New()
	io.WriteString(h, f.Path)
	io.WriteString(h, "\x00")
	io.WriteString(h, f.PatternID)
	io.WriteString(h, "\x00")
	io.WriteString(h, f.Match)
	return fmt.Sprintf("%016x", h.Sum64())
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Version: 1, Items: map[string]bool{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Version: 1, Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[Fingerprint(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buf, '\n'), 0o644)
}

// FilterNewFindings drops findings whose fingerprint the baseline accepts.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[Fingerprint(f)] {
			out = append(out, f)
		}
	}
	return out
}
