package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com
SKILLS
React, Node.js, MongoDB
EXPERIENCE
Built web apps 2021 - 2023
`

// executeCommand runs the root command in-process and returns what it printed.
// Package-level flag values are reset first so tests do not leak into each other.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Setenv("OUTPUT_DIR", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags() {
	configPath, verbose, logLevel = "", false, ""
	analyzeFlags = inputFlags{}
	recommendFlags = inputFlags{}
	reviewFlags = inputFlags{}
	renderEnhancedFlags = inputFlags{}
	renderRecsFlags = inputFlags{}
	renderOutDir = ""
	taxonomyLevel, taxonomyJSON = "", false

	// Required and exclusive flag checks look at Changed, which survives Execute.
	unset := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(unset)
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(unset)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
