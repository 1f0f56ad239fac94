package hook

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	return dir
}

func TestInstallAndReinstall(t *testing.T) {
	dir := initRepo(t)

	path, err := Install(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git", "hooks", "pre-commit"), path)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&0o100, "hook must be executable")
	assert.True(t, Installed(dir))

	// Second install is a no-op, not an error.
	_, err = Install(dir)
	assert.NoError(t, err)
}

func TestInstallRefusesForeignHook(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(dir, ".git", "hooks", "pre-commit")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho custom\n"), 0o755))

	_, err := Install(dir)
	assert.Error(t, err)
	assert.False(t, Installed(dir))

	// The foreign hook survives untouched.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "echo custom")
}

func TestInstallOutsideRepository(t *testing.T) {
	_, err := Install(t.TempDir())
	assert.Error(t, err)
}
