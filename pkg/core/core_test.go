package core

import (
	"bytes"
	"context"
	"testing"
)

func TestScan_Smoke(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	ids := PatternIDs(cfg)
	if len(ids) == 0 {
		t.Fatal("expected non-empty pattern ids")
	}

	res, err := Scan(context.Background(), Options{Root: t.TempDir(), Config: cfg, Mode: ModeWorktree})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Failed {
		t.Fatalf("empty tree must not fail: %+v", res.Findings)
	}
}

func TestReportRoundTrip(t *testing.T) {
	crit, err := ParseSeverity("critical")
	if err != nil {
		t.Fatal(err)
	}
	res := &Result{
		Findings: []Finding{{PatternID: "github-pat", Severity: crit, Path: "a.go", Line: 3, Match: "ghp_x"}},
		Warnings: []Warning{{Path: "locked.txt", Err: "permission denied"}},
	}
	res.Stats.UnitsScanned = 7

	var buf bytes.Buffer
	if err := WriteReport(&buf, res); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"findings"`)) {
		t.Fatalf("expected the --json envelope, got: %s", buf.String())
	}

	rep, err := ReadReport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Findings) != 1 || rep.Findings[0].PatternID != "github-pat" || rep.Findings[0].Severity != crit {
		t.Fatalf("findings round trip mismatch: %+v", rep.Findings)
	}
	if len(rep.Warnings) != 1 || rep.Stats.UnitsScanned != 7 {
		t.Fatalf("envelope round trip mismatch: %+v", rep)
	}
}
