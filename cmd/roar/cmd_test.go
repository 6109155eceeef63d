package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, name, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))
	return path
}

func TestBuildFromCode(t *testing.T) {
	out, err := execute(t, buildCmd(), "-c", "roar -hi-")
	require.NoError(t, err)
	assert.Equal(t, "console.log(\"hi\");\n", out)
}

func TestBuildFromFile(t *testing.T) {
	path := writeSource(t, "main.roar", "x = 5 + 8\nroar x")
	out, err := execute(t, buildCmd(), path)
	require.NoError(t, err)
	assert.Equal(t, "let x = 13;\nconsole.log(x);\n", out)
}

func TestBuildNoOptimize(t *testing.T) {
	out, err := execute(t, buildCmd(), "-c", "x = 5 + 8", "--no-optimize")
	require.NoError(t, err)
	assert.Equal(t, "let x = 5 + 8;\n", out)
}

func TestBuildToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.js")
	out, err := execute(t, buildCmd(), "-c", "roar 1", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1);\n", string(written))
}

func TestBuildUnsupportedTarget(t *testing.T) {
	_, err := execute(t, buildCmd(), "-c", "roar 1", "--target", "wasm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wasm")
}

func TestBuildReportsCompileError(t *testing.T) {
	_, err := execute(t, buildCmd(), "-c", "roar missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Variable 'missing' not declared")
}

func TestBuildConflictingInputs(t *testing.T) {
	path := writeSource(t, "main.roar", "roar 1")
	_, err := execute(t, buildCmd(), path, "-c", "roar 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple input sources")
}

func TestBuildNoInput(t *testing.T) {
	_, err := execute(t, buildCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input")
}

func TestCheckSingleFile(t *testing.T) {
	path := writeSource(t, "ok.roar", "x = 1\nroar x")
	out, err := execute(t, checkCmd(), path)
	require.NoError(t, err)
	assert.Equal(t, path+": ok\n", out)
}

func TestCheckAggregatesFailures(t *testing.T) {
	good := writeSource(t, "good.roar", "roar 1")
	bad1 := writeSource(t, "bad1.roar", "roar missing")
	bad2 := writeSource(t, "bad2.roar", "x = 5 / 0")

	out, err := execute(t, checkCmd(), good, bad1, bad2)
	require.Error(t, err)
	assert.Contains(t, out, good+": ok")
	assert.Contains(t, err.Error(), "Variable 'missing' not declared")
	assert.Contains(t, err.Error(), "Cannot divide by zero")
}

func TestAstJSON(t *testing.T) {
	out, err := execute(t, astCmd(), "-c", "x = 1")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "assign"`)
	assert.Contains(t, out, `"declares": true`)
}

func TestAstText(t *testing.T) {
	out, err := execute(t, astCmd(), "-c", "x = 1", "--output", "text")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)
}

func TestAstOptimized(t *testing.T) {
	out, err := execute(t, astCmd(), "-c", "x = 5 + 8", "--output", "text", "--optimize")
	require.NoError(t, err)
	assert.Equal(t, "x = 13\n", out)
}

func TestAstUnknownFormat(t *testing.T) {
	_, err := execute(t, astCmd(), "-c", "x = 1", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, versionCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "roar dev")

	out, err = execute(t, versionCmd(), "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "dev"`)
}
