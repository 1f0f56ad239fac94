// Package hook installs the git pre-commit hook that runs the staged scan
// before every commit.
package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// marker identifies a hook this tool wrote, so reinstalling is idempotent and
// foreign hooks are never clobbered.
const marker = "# installed by ssq"

const script = `#!/bin/sh
` + marker + `
exec ssq --staged
`

// Install writes .git/hooks/pre-commit at repoRoot and returns the hook path.
// Installing over an existing hook of ours is a no-op; a hook written by
// anything else is left untouched and reported as an error.
func Install(repoRoot string) (string, error) {
	gitDir := filepath.Join(repoRoot, ".git")
	fi, err := os.Stat(gitDir)
	if err != nil || !fi.IsDir() {
		return "", fmt.Errorf("not a git repository: %s", repoRoot)
	}

	path := filepath.Join(gitDir, "hooks", "pre-commit")
	if existing, rerr := os.ReadFile(path); rerr == nil {
		if strings.Contains(string(existing), marker) {
			return path, nil
		}
		return "", fmt.Errorf("%s exists and was not written by ssq; remove it first", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Installed reports whether our pre-commit hook is present at repoRoot.
func Installed(repoRoot string) bool {
	b, err := os.ReadFile(filepath.Join(repoRoot, ".git", "hooks", "pre-commit"))
	return err == nil && strings.Contains(string(b), marker)
}
