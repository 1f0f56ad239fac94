package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/secret-squirrel/ssq/internal/types"
)

func TestBaselineRoundTripAndFilter(t *testing.T) {
	known := types.Finding{Path: "a.go", PatternID: "github-pat", Match: "ghp_known", Line: 3}
	fresh := types.Finding{Path: "a.go", PatternID: "github-pat", Match: "ghp_fresh", Line: 9}

	path := filepath.Join(t.TempDir(), ".ssq-baseline.json")
	if err := SaveBaseline(path, []types.Finding{known}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "ghp_known") {
		t.Fatalf("baseline stores raw secret material: %s", raw)
	}

	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatal(err)
	}
	out := FilterNewFindings([]types.Finding{known, fresh}, base)
	if len(out) != 1 || out[0].Match != "ghp_fresh" {
		t.Fatalf("expected only the fresh finding to survive, got %+v", out)
	}
}

func TestFingerprintIgnoresLine(t *testing.T) {
	a := types.Finding{Path: "a.go", PatternID: "p", Match: "m", Line: 3}
	b := a
	b.Line = 40
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("fingerprint must not depend on line number")
	}
	c := a
	c.Match = "other"
	if Fingerprint(a) == Fingerprint(c) {
		t.Fatal("fingerprint must depend on matched text")
	}
}

func TestLoadBaselineMissingFile(t *testing.T) {
	_, err := LoadBaseline(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing baseline")
	}
}
