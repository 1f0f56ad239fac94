package engine

import (
	"bytes"

	"github.com/secret-squirrel/ssq/internal/patterns"
	"github.com/secret-squirrel/ssq/internal/types"
)

// scanUnit applies every compiled detection pattern to one unit, finding all
// non-overlapping occurrences per pattern. Matches whose text is covered by
// an ignore pattern are suppressed here, against the matched substring only.
// Severity filtering happens later in the aggregator, so a below-threshold
// match is still recorded for diagnostics.
func scanUnit(reg *patterns.Registry, u types.ScanUnit) []types.RawMatch {
	var out []types.RawMatch
	for _, p := range reg.Patterns() {
		for _, loc := range p.Regex.FindAllIndex(u.Data, -1) {
			text := string(u.Data[loc[0]:loc[1]])
			if reg.Suppressed(text) {
				continue
			}
			out = append(out, types.RawMatch{
				PatternID:   p.ID,
				Description: p.Description,
				Severity:    p.Severity,
				Unit:        unitMeta(u),
				Start:       loc[0],
				End:         loc[1],
				Line:        1 + bytes.Count(u.Data[:loc[0]], []byte{'\n'}),
				Text:        text,
			})
		}
	}
	return out
}

// unitMeta strips the content so matches do not pin whole files in memory
// until aggregation.
func unitMeta(u types.ScanUnit) types.ScanUnit {
	u.Data = nil
	return u
}
