package report

import (
	"encoding/json"
	"io"

	"github.com/secret-squirrel/ssq/internal/types"
)

type sarif struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine  int          `json:"startLine"`
	ByteOffset int          `json:"byteOffset"`
	ByteLength int          `json:"byteLength"`
	Snippet    sarifMessage `json:"snippet"`
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevCritical, types.SevHigh:
		return "error"
	case types.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0. Each distinct pattern id becomes
// one rule; results link back through ruleIndex.
func WriteSARIF(w io.Writer, findings []types.Finding, version string) error {
	driver := sarifDriver{Name: "ssq", Version: version, Rules: []sarifRule{}}
	ruleIndex := map[string]int{}
	results := []sarifResult{}
	for _, f := range findings {
		idx, ok := ruleIndex[f.PatternID]
		if !ok {
			idx = len(driver.Rules)
			ruleIndex[f.PatternID] = idx
			driver.Rules = append(driver.Rules, sarifRule{
				ID:               f.PatternID,
				ShortDescription: sarifMessage{Text: f.Description},
			})
		}
		msg := f.Description
		if msg == "" {
			msg = f.PatternID + " detected"
		}
		results = append(results, sarifResult{
			RuleID:    f.PatternID,
			RuleIndex: idx,
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region: sarifRegion{
						StartLine:  f.Line,
						ByteOffset: f.Start,
						ByteLength: f.End - f.Start,
						Snippet:    sarifMessage{Text: maskValue(f.Match)},
					},
				},
			}},
		})
	}
	doc := sarif{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, Results: results}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
