package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secret-squirrel/ssq/internal/types"
)

func TestEmbeddedBaseResolves(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, types.SevLow, cfg.MinSeverity)
	assert.NotEmpty(t, cfg.Patterns)
	assert.NotEmpty(t, cfg.IgnorePaths)

	gh, ok := cfg.Patterns["github-pat"]
	require.True(t, ok, "base config must ship github-pat")
	assert.Equal(t, types.SevCritical, gh.Severity)
}

func TestMergeBehaviors(t *testing.T) {
	base := &Document{
		IgnorePatterns: []string{"TEST_.*"},
		IgnorePaths:    []string{"tests/*"},
	}

	t.Run("merge is the default", func(t *testing.T) {
		project := &Document{
			IgnorePatterns: []string{"DUMMY_.*"},
			IgnorePaths:    []string{"examples/*"},
		}
		cfg, err := Resolve(base, "base config", project, ".ssq.yml")
		require.NoError(t, err)
		assert.Equal(t, []string{"TEST_.*", "DUMMY_.*"}, cfg.IgnorePatterns)
		assert.Equal(t, []string{"tests/*", "examples/*"}, cfg.IgnorePaths)
	})

	t.Run("replace supersedes the base list", func(t *testing.T) {
		project := &Document{
			IgnorePatterns:        []string{"DUMMY_.*"},
			IgnorePaths:           []string{"examples/*"},
			IgnorePatternBehavior: BehaviorReplace,
			IgnorePathsBehavior:   BehaviorReplace,
		}
		cfg, err := Resolve(base, "base config", project, ".ssq.yml")
		require.NoError(t, err)
		assert.Equal(t, []string{"DUMMY_.*"}, cfg.IgnorePatterns)
		assert.Equal(t, []string{"examples/*"}, cfg.IgnorePaths)
	})

	t.Run("replace with no project list keeps the base list", func(t *testing.T) {
		project := &Document{IgnorePathsBehavior: BehaviorReplace}
		cfg, err := Resolve(base, "base config", project, ".ssq.yml")
		require.NoError(t, err)
		assert.Equal(t, []string{"tests/*"}, cfg.IgnorePaths)
	})
}

func TestPatternOverrideIsWhole(t *testing.T) {
	base := &Document{Patterns: map[string]Pattern{
		"p1": {Description: "base", Regex: "[A-Za-z0-9]{40}", Severity: "HIGH"},
		"p2": {Description: "kept", Regex: "AKIA[0-9A-Z]{16}", Severity: "CRITICAL"},
	}}
	project := &Document{Patterns: map[string]Pattern{
		"p1": {Regex: "gh[a-z]_[0-9a-f]{36}", Severity: "LOW"},
		"p3": {Description: "new", Regex: "npm_[A-Za-z0-9]{36}", Severity: "CRITICAL"},
	}}

	cfg, err := Resolve(base, "base config", project, ".ssq.yml")
	require.NoError(t, err)
	require.Len(t, cfg.Patterns, 3)

	// p1 is entirely the project's definition, including the now-empty description.
	assert.Equal(t, "gh[a-z]_[0-9a-f]{36}", cfg.Patterns["p1"].Regex)
	assert.Equal(t, types.SevLow, cfg.Patterns["p1"].Severity)
	assert.Empty(t, cfg.Patterns["p1"].Description)

	assert.Equal(t, "AKIA[0-9A-Z]{16}", cfg.Patterns["p2"].Regex)
	assert.Equal(t, "npm_[A-Za-z0-9]{36}", cfg.Patterns["p3"].Regex)
}

func TestSeverityPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		base    string
		project string
		want    types.Severity
	}{
		{"neither set defaults to LOW", "", "", types.SevLow},
		{"base only", "HIGH", "", types.SevHigh},
		{"project overrides base", "HIGH", "medium", types.SevMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Resolve(&Document{Severity: tc.base}, "base config", &Document{Severity: tc.project}, ".ssq.yml")
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.MinSeverity)
		})
	}
}

func TestUnknownTopLevelKeyRejected(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".ssq.yml"), []byte("severity: HIGH\nbogus_key: 1\n"), 0o644)
	require.NoError(t, err)

	_, err = Load(dir, "")
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ".ssq.yml", cerr.File)
}

func TestPatternValidation(t *testing.T) {
	cases := []struct {
		name    string
		pattern Pattern
	}{
		{"missing regex", Pattern{Severity: "HIGH"}},
		{"missing severity", Pattern{Regex: "AKIA.*"}},
		{"bad severity enum", Pattern{Regex: "AKIA.*", Severity: "URGENT"}},
		{"bad regex", Pattern{Regex: "AKIA[", Severity: "HIGH"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &Document{Patterns: map[string]Pattern{"broken": tc.pattern}}
			_, err := Resolve(doc, "base config", nil, "")
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "broken", cerr.Pattern)
		})
	}
}

func TestInvalidIgnoreEntries(t *testing.T) {
	_, err := Resolve(&Document{IgnorePatterns: []string{"(unclosed"}}, "base config", nil, "")
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "ignore_patterns", cerr.Key)

	_, err = Resolve(&Document{IgnorePaths: []string{"a[/**"}}, "base config", nil, "")
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "ignore_paths", cerr.Key)
}

func TestProjectFileDiscovery(t *testing.T) {
	dir := t.TempDir()
	body := "patterns:\n  local-token:\n    regex: 'tok_[a-z]{10}'\n    severity: MEDIUM\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ssq.yaml"), []byte(body), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	_, ok := cfg.Patterns["local-token"]
	assert.True(t, ok)
	// base patterns survive a project merge
	_, ok = cfg.Patterns["github-pat"]
	assert.True(t, ok)
}

func TestEffectiveViewFiltersBelowMinimum(t *testing.T) {
	base := &Document{
		Severity: "HIGH",
		Patterns: map[string]Pattern{
			"loud":  {Regex: "AKIA[0-9A-Z]{16}", Severity: "CRITICAL"},
			"quiet": {Regex: "password=.*", Severity: "LOW"},
		},
	}
	cfg, err := Resolve(base, "base config", nil, "")
	require.NoError(t, err)

	view := cfg.EffectiveView()
	assert.Equal(t, "HIGH", view.Severity)
	assert.Contains(t, view.Patterns, "loud")
	assert.NotContains(t, view.Patterns, "quiet")
}

func TestSchemaGeneration(t *testing.T) {
	b, err := SchemaJSON()
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, "ignore_pattern_behavior")
	assert.Contains(t, s, "patterns")
}
