package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "stepwise version 0.1.0")
}

func TestTraceCommand(t *testing.T) {
	out := execute(t, "trace", "two-sum", "--store", "memory", "--format", "yaml", "--test-case", "1")
	assert.Contains(t, out, "problem: two-sum")
	assert.Contains(t, out, "3,2,4")
}

func TestPlayHeadless(t *testing.T) {
	out := execute(t, "play", "valid-parentheses", "--store", "memory", "--headless", "--input", "s=()")
	assert.Contains(t, out, "Valid Parentheses")
	assert.Contains(t, out, "Step 1/")
}

func TestProgressCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "stepwise.yaml")
	cfg := fmt.Sprintf("profile: alice\nstore:\n  backend: file\n  path: %s\n", filepath.Join(dir, "progress"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	base := []string{"--config", cfgPath, "--store", "file"}
	run := func(args ...string) string {
		return execute(t, append(append([]string{}, args...), base...)...)
	}

	assert.Contains(t, run("progress", "done", "two-sum"), "Updated 'two-sum'")
	assert.Contains(t, run("progress", "fav", "2"), "added to favorites")
	out := run("progress", "ls")
	assert.Contains(t, out, "Profile alice: 1/6 completed")
	assert.Contains(t, out, "Favorites:   2. Reverse Linked List")

	assert.Contains(t, run("progress", "reset"), "Progress for 'alice' reset")
	assert.Contains(t, run("progress", "ls"), "0/6 completed")
}
