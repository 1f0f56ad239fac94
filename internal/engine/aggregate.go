package engine

import (
	"sort"
	"strconv"

	"github.com/secret-squirrel/ssq/internal/cache"
	"github.com/secret-squirrel/ssq/internal/types"
)

// aggregator turns raw matches into the final finding list: it drops matches
// below the effective minimum severity, collapses history matches that share
// (pattern, content digest, offset), and imposes the deterministic output
// ordering: descending severity, then path, offset, pattern id and de-dup key.
type aggregator struct {
	min   types.Severity
	blobs *cache.BlobCache // nil outside history mode
}

func newAggregator(min types.Severity, blobs *cache.BlobCache) *aggregator {
	return &aggregator{min: min, blobs: blobs}
}

func (a *aggregator) Finalize(matches []types.RawMatch) []types.Finding {
	var out []types.Finding
	seen := map[string]bool{}
	for _, m := range matches {
		if m.Severity < a.min {
			continue
		}
		f := types.Finding{
			PatternID:   m.PatternID,
			Description: m.Description,
			Severity:    m.Severity,
			Path:        m.Unit.Path,
			Line:        m.Line,
			Start:       m.Start,
			End:         m.End,
			Match:       m.Text,
		}
		if m.Unit.Kind == types.SourceHistory {
			f.Key = m.PatternID + "\x00" + m.Unit.Blob + "\x00" + strconv.Itoa(m.Start)
			if seen[f.Key] {
				continue
			}
			seen[f.Key] = true
			if a.blobs != nil {
				f.Commits = append([]string(nil), a.blobs.Commits(m.Unit.Blob)...)
			}
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		if out[i].PatternID != out[j].PatternID {
			return out[i].PatternID < out[j].PatternID
		}
		// Two history findings can tie on everything above when distinct
		// versions of a file carry the same pattern at the same offset; the
		// key embeds the blob digest and breaks the tie deterministically.
		return out[i].Key < out[j].Key
	})
	return out
}
