package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeysPrintsTrace(t *testing.T) {
	out, err := execute(t, "keys", "clear", "6", "+", "3", "=", "=")
	require.NoError(t, err)
	assert.Equal(t, "clear AC _ 0\n6     C  _ 6\n+     C  + 6\n3     C  + 3\n=     C  + 9\n=     C  + 12\n", out)
}

func TestKeysRejectsUnknownToken(t *testing.T) {
	_, err := execute(t, "keys", "1", "sqrt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown key "sqrt"`)
}

func TestRunScenarioDirectory(t *testing.T) {
	out, err := execute(t, "run", filepath.Join("..", "..", "internal", "scenario", "testdata"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok   repeated-equals")
	assert.Contains(t, out, " 0 failed")
}

func TestRunReportsFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nkeys: \"1 + 1\"\nsteps:\n  - key: \"=\"\n    display: \"3\"\n"), 0o644))

	out, err := execute(t, "run", "-v", path)
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "FAIL bad")
	assert.Contains(t, out, `display = "2", want "3"`)
	assert.Contains(t, out, "0 passed, 1 failed")
}

func TestRunMissingFile(t *testing.T) {
	_, err := execute(t, "run", "does-not-exist.yaml")
	require.Error(t, err)
}
