package config

import _ "embed"

// The base document ships inside the binary so a bare install always has the
// built-in patterns available. --config swaps it for an on-disk file.
//
//go:embed base.yml
var baseYAML []byte
