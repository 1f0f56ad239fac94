// Package report renders scan results: the human-readable terminal view,
// machine-readable JSON, SARIF 2.1.0, and the baseline file used to accept
// known findings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/secret-squirrel/ssq/internal/types"
)

type PrintOptions struct {
	NoColor       bool
	Duration      time.Duration
	UnitsScanned  int
	CommitsWalked int
}

var (
	sevCriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevHighStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	locationStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	commitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// IsTerminal reports whether f is attached to a terminal, for auto-disabling
// color when output is piped.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func severityLabel(s types.Severity, noColor bool) string {
	name := s.String()
	if noColor {
		return name
	}
	switch s {
	case types.SevCritical:
		return sevCriticalStyle.Render(name)
	case types.SevHigh:
		return sevHighStyle.Render(name)
	case types.SevMedium:
		return sevMediumStyle.Render(name)
	default:
		return sevLowStyle.Render(name)
	}
}

// PrintText writes the human-readable report. Findings are printed in the
// order the engine produced them; the ordering contract lives there, not here.
func PrintText(w io.Writer, findings []types.Finding, warnings []types.Warning, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		maxPat := 8
		for _, f := range findings {
			if l := len(f.PatternID); l > maxPat {
				maxPat = l
			}
		}
		for _, f := range findings {
			loc := fmt.Sprintf("%s:%d", f.Path, f.Line)
			if !opts.NoColor {
				loc = locationStyle.Render(loc)
			}
			fmt.Fprintf(w, "%-8s %-*s %s  %s\n",
				severityLabel(f.Severity, opts.NoColor), maxPat, f.PatternID, loc, maskValue(f.Match))
			if len(f.Commits) > 0 {
				note := fmt.Sprintf("    in %d commit(s): %s", len(f.Commits), shortCommits(f.Commits, 5))
				if !opts.NoColor {
					note = commitStyle.Render(note)
				}
				fmt.Fprintln(w, note)
			}
		}
	}

	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", warn.Path, warn.Err)
	}

	if opts.Duration > 0 || opts.UnitsScanned > 0 {
		fmt.Fprintln(w)
		counts := map[types.Severity]int{}
		for _, f := range findings {
			counts[f.Severity]++
		}
		fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n",
			len(findings), counts[types.SevCritical], counts[types.SevHigh],
			counts[types.SevMedium], counts[types.SevLow])
		if opts.UnitsScanned > 0 {
			fmt.Fprintf(w, "Units scanned: %d\n", opts.UnitsScanned)
		}
		if opts.CommitsWalked > 0 {
			fmt.Fprintf(w, "Commits walked: %d\n", opts.CommitsWalked)
		}
		if opts.Duration > 0 {
			fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
		}
	}
}

// maskValue keeps just enough of the secret to recognize it.
func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func shortCommits(commits []string, max int) string {
	short := make([]string, 0, len(commits))
	for _, c := range commits {
		if len(c) > 8 {
			c = c[:8]
		}
		short = append(short, c)
		if len(short) == max && len(commits) > max {
			short = append(short, "…")
			break
		}
	}
	return strings.Join(short, ", ")
}

// jsonReport is the envelope for --json output.
type jsonReport struct {
	Findings []types.Finding `json:"findings"`
	Warnings []types.Warning `json:"warnings,omitempty"`
	Stats    jsonStats       `json:"stats"`
}

type jsonStats struct {
	UnitsScanned  int     `json:"units_scanned"`
	CommitsWalked int     `json:"commits_walked,omitempty"`
	DurationSecs  float64 `json:"duration_seconds"`
}

// WriteJSON writes the machine-readable report. The findings slice is
// serialized as [] rather than null when empty.
func WriteJSON(w io.Writer, findings []types.Finding, warnings []types.Warning, opts PrintOptions) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	doc := jsonReport{
		Findings: findings,
		Warnings: warnings,
		Stats: jsonStats{
			UnitsScanned:  opts.UnitsScanned,
			CommitsWalked: opts.CommitsWalked,
			DurationSecs:  opts.Duration.Seconds(),
		},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
