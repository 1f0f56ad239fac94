package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/secret-squirrel/ssq/internal/types"
)

// Behavior values for ignore_pattern_behavior / ignore_paths_behavior.
const (
	BehaviorMerge   = "merge"
	BehaviorReplace = "replace"
)

// Project config file names probed at the repository root.
var projectFileNames = []string{".ssq.yml", ".ssq.yaml"}

// Pattern is one detection pattern entry as written in YAML. Regex and
// Severity are required; Description is optional.
type Pattern struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Regex       string `yaml:"regex" json:"regex"`
	Severity    string `yaml:"severity" json:"severity" jsonschema:"enum=LOW,enum=MEDIUM,enum=HIGH,enum=CRITICAL"`
}

// Document is the on-disk YAML shape shared by the base and project configs.
// Unknown keys are rejected on decode.
type Document struct {
	Severity              string             `yaml:"severity,omitempty" json:"severity,omitempty" jsonschema:"enum=LOW,enum=MEDIUM,enum=HIGH,enum=CRITICAL"`
	IgnorePatterns        []string           `yaml:"ignore_patterns,omitempty" json:"ignore_patterns,omitempty"`
	IgnorePaths           []string           `yaml:"ignore_paths,omitempty" json:"ignore_paths,omitempty"`
	IgnorePatternBehavior string             `yaml:"ignore_pattern_behavior,omitempty" json:"ignore_pattern_behavior,omitempty" jsonschema:"enum=merge,enum=replace"`
	IgnorePathsBehavior   string             `yaml:"ignore_paths_behavior,omitempty" json:"ignore_paths_behavior,omitempty" jsonschema:"enum=merge,enum=replace"`
	Patterns              map[string]Pattern `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// ResolvedPattern is a validated pattern with its severity parsed. The regex
// stays a string here; the registry compiles it once per run.
type ResolvedPattern struct {
	ID          string
	Description string
	Regex       string
	Severity    types.Severity
}

// Config is the effective configuration for one run: the merged result of the
// base and project documents. It is immutable for the duration of a scan.
type Config struct {
	MinSeverity    types.Severity
	IgnorePatterns []string
	IgnorePaths    []string
	Patterns       map[string]ResolvedPattern

	// behaviors are kept for display only; the merge already happened.
	IgnorePatternBehavior string
	IgnorePathsBehavior   string
}

// SortedPatterns returns the effective patterns in id order, for deterministic
// compilation and display.
func (c *Config) SortedPatterns() []ResolvedPattern {
	out := make([]ResolvedPattern, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// decodeStrict parses a YAML document rejecting unknown fields at any level.
func decodeStrict(file string, b []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, &ConfigError{File: file, Msg: "schema violation", Err: err}
	}
	return &doc, nil
}

// LoadBase returns the shipped base document, or the document at path when a
// base override was requested (the --config flag).
func LoadBase(path string) (*Document, string, error) {
	if path == "" {
		doc, err := decodeStrict("base config", baseYAML)
		return doc, "base config", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, path, &ConfigError{File: path, Msg: "cannot read config file", Err: err}
	}
	doc, err := decodeStrict(path, b)
	return doc, path, err
}

// LoadProject probes the repository root for a project config. A missing file
// is not an error; a present-but-invalid one is.
func LoadProject(root string) (*Document, string, error) {
	for _, name := range projectFileNames {
		p := filepath.Join(root, name)
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, p, &ConfigError{File: p, Msg: "cannot read config file", Err: err}
		}
		doc, err := decodeStrict(name, b)
		return doc, name, err
	}
	return nil, "", nil
}

// validate checks one document against the schema rules that strict decoding
// cannot express: enum values, required pattern fields, regex and glob syntax.
func validate(file string, doc *Document) error {
	if doc.Severity != "" {
		if _, err := types.ParseSeverity(doc.Severity); err != nil {
			return &ConfigError{File: file, Key: "severity", Msg: "invalid severity", Err: err}
		}
	}
	for _, key := range []string{"ignore_pattern_behavior", "ignore_paths_behavior"} {
		v := doc.IgnorePatternBehavior
		if key == "ignore_paths_behavior" {
			v = doc.IgnorePathsBehavior
		}
		if v != "" && v != BehaviorMerge && v != BehaviorReplace {
			return &ConfigError{File: file, Key: key, Msg: "must be \"merge\" or \"replace\""}
		}
	}
	for _, re := range doc.IgnorePatterns {
		if _, err := regexp.Compile(re); err != nil {
			return &ConfigError{File: file, Key: "ignore_patterns", Msg: "invalid regex", Err: err}
		}
	}
	for _, g := range doc.IgnorePaths {
		if !doublestar.ValidatePattern(g) {
			return &ConfigError{File: file, Key: "ignore_paths", Msg: "invalid glob " + g}
		}
	}
	ids := make([]string, 0, len(doc.Patterns))
	for id := range doc.Patterns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := doc.Patterns[id]
		if p.Regex == "" {
			return &ConfigError{File: file, Pattern: id, Msg: "missing required field regex"}
		}
		if p.Severity == "" {
			return &ConfigError{File: file, Pattern: id, Msg: "missing required field severity"}
		}
		if _, err := types.ParseSeverity(p.Severity); err != nil {
			return &ConfigError{File: file, Pattern: id, Msg: "invalid severity", Err: err}
		}
		if _, err := regexp.Compile(p.Regex); err != nil {
			return &ConfigError{File: file, Pattern: id, Msg: "invalid regex", Err: err}
		}
	}
	return nil
}

// Resolve merges a validated base and optional project document into the
// effective configuration. It is a pure function over the two documents;
// neither input is mutated.
func Resolve(base *Document, baseFile string, project *Document, projectFile string) (*Config, error) {
	if err := validate(baseFile, base); err != nil {
		return nil, err
	}
	if project != nil {
		if err := validate(projectFile, project); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		IgnorePatternBehavior: BehaviorMerge,
		IgnorePathsBehavior:   BehaviorMerge,
		IgnorePatterns:        append([]string(nil), base.IgnorePatterns...),
		IgnorePaths:           append([]string(nil), base.IgnorePaths...),
		Patterns:              make(map[string]ResolvedPattern, len(base.Patterns)),
	}
	for id, p := range base.Patterns {
		cfg.Patterns[id] = resolvePattern(id, p)
	}

	severity := base.Severity
	if project != nil {
		if project.IgnorePatternBehavior != "" {
			cfg.IgnorePatternBehavior = project.IgnorePatternBehavior
		}
		if project.IgnorePathsBehavior != "" {
			cfg.IgnorePathsBehavior = project.IgnorePathsBehavior
		}
		if project.IgnorePatterns != nil {
			if cfg.IgnorePatternBehavior == BehaviorReplace {
				cfg.IgnorePatterns = append([]string(nil), project.IgnorePatterns...)
			} else {
				cfg.IgnorePatterns = append(cfg.IgnorePatterns, project.IgnorePatterns...)
			}
		}
		if project.IgnorePaths != nil {
			if cfg.IgnorePathsBehavior == BehaviorReplace {
				cfg.IgnorePaths = append([]string(nil), project.IgnorePaths...)
			} else {
				cfg.IgnorePaths = append(cfg.IgnorePaths, project.IgnorePaths...)
			}
		}
		// Patterns always union by id; a project entry replaces the base
		// entry of the same id entirely, never field by field.
		for id, p := range project.Patterns {
			cfg.Patterns[id] = resolvePattern(id, p)
		}
		if project.Severity != "" {
			severity = project.Severity
		}
	}

	if severity != "" {
		sev, err := types.ParseSeverity(severity)
		if err != nil {
			// Unreachable after validate, but keep the contract explicit.
			return nil, &ConfigError{File: projectFile, Key: "severity", Msg: "invalid severity", Err: err}
		}
		cfg.MinSeverity = sev
	} else {
		cfg.MinSeverity = types.SevLow
	}
	return cfg, nil
}

func resolvePattern(id string, p Pattern) ResolvedPattern {
	sev, _ := types.ParseSeverity(p.Severity) // validated upstream
	return ResolvedPattern{ID: id, Description: p.Description, Regex: p.Regex, Severity: sev}
}

// Load resolves the effective configuration for a repository root.
// basePath overrides the embedded base document when non-empty.
func Load(root, basePath string) (*Config, error) {
	base, baseFile, err := LoadBase(basePath)
	if err != nil {
		return nil, err
	}
	project, projectFile, err := LoadProject(root)
	if err != nil {
		return nil, err
	}
	return Resolve(base, baseFile, project, projectFile)
}

// Effective is the display shape for the resolved configuration, serialized
// by print-config in a stable field order.
type Effective struct {
	Severity              string             `yaml:"severity"`
	IgnorePatternBehavior string             `yaml:"ignore_pattern_behavior"`
	IgnorePathsBehavior   string             `yaml:"ignore_paths_behavior"`
	IgnorePatterns        []string           `yaml:"ignore_patterns"`
	IgnorePaths           []string           `yaml:"ignore_paths"`
	Patterns              map[string]Pattern `yaml:"patterns"`
}

// EffectiveView renders the resolved configuration, keeping only patterns at
// or above the effective minimum severity (matching what a scan would use).
func (c *Config) EffectiveView() Effective {
	pats := make(map[string]Pattern, len(c.Patterns))
	for id, p := range c.Patterns {
		if p.Severity < c.MinSeverity {
			continue
		}
		pats[id] = Pattern{Description: p.Description, Regex: p.Regex, Severity: p.Severity.String()}
	}
	return Effective{
		Severity:              c.MinSeverity.String(),
		IgnorePatternBehavior: c.IgnorePatternBehavior,
		IgnorePathsBehavior:   c.IgnorePathsBehavior,
		IgnorePatterns:        c.IgnorePatterns,
		IgnorePaths:           c.IgnorePaths,
		Patterns:              pats,
	}
}
