package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/secret-squirrel/ssq/internal/types"
)

func TestWriteSARIF_RulesAndResults(t *testing.T) {
	fs := []types.Finding{
		{Path: "a.go", Line: 10, Start: 120, End: 160, Match: "ghp_0123456789abcdef", PatternID: "github-pat", Description: "GitHub personal access token", Severity: types.SevCritical},
		{Path: "b.txt", Line: 5, Start: 40, End: 80, Match: "eyJhbGciOi.something", PatternID: "jwt", Severity: types.SevMedium},
		{Path: "c.txt", Line: 2, Start: 0, End: 40, Match: "ghp_aaaabbbbccccdddd", PatternID: "github-pat", Severity: types.SevCritical},
	}
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, fs, "1.2.3"); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine  int `json:"startLine"`
							ByteOffset int `json:"byteOffset"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if doc.Version != "2.1.0" {
		t.Fatalf("expected SARIF 2.1.0, got %v", doc.Version)
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "ssq" || run.Tool.Driver.Version != "1.2.3" {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	// Two distinct pattern ids, three results.
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(run.Results))
	}
	// Repeated pattern reuses the same rule index.
	if run.Results[0].RuleIndex != run.Results[2].RuleIndex {
		t.Fatalf("expected shared ruleIndex for repeated pattern")
	}
	if run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("unexpected levels: %v / %v", run.Results[0].Level, run.Results[1].Level)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 10 || region.ByteOffset != 120 {
		t.Fatalf("unexpected region: %+v", region)
	}
	if bytes.Contains(buf.Bytes(), []byte("ghp_0123456789abcdef")) {
		t.Fatalf("raw secret leaked into SARIF output")
	}
}

func TestWriteSARIF_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, nil, "dev"); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	runs := doc["runs"].([]any)
	run := runs[0].(map[string]any)
	if results, ok := run["results"].([]any); !ok || len(results) != 0 {
		t.Fatalf("expected empty results array, got %v", run["results"])
	}
}
