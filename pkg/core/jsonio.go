package core

import (
	"encoding/json"
	"io"

	"github.com/secret-squirrel/ssq/internal/report"
)

// Report is the decoded findings/warnings/stats envelope, matching what the
// CLI's --json flag emits, so library consumers and pipeline output stay
// interchangeable.
type Report struct {
	Findings []Finding `json:"findings"`
	Warnings []Warning `json:"warnings,omitempty"`
	Stats    struct {
		UnitsScanned  int     `json:"units_scanned"`
		CommitsWalked int     `json:"commits_walked,omitempty"`
		DurationSecs  float64 `json:"duration_seconds"`
	} `json:"stats"`
}

// WriteReport serializes a scan result as the --json envelope.
func WriteReport(w io.Writer, res *Result) error {
	return report.WriteJSON(w, res.Findings, res.Warnings, report.PrintOptions{
		Duration:      res.Stats.Duration,
		UnitsScanned:  res.Stats.UnitsScanned,
		CommitsWalked: res.Stats.CommitsWalked,
	})
}

// ReadReport decodes an envelope produced by WriteReport or by ssq --json,
// useful for ingesting scan output from another process.
func ReadReport(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
