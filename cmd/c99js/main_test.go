package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunCompilesToStdout(t *testing.T) {
	input := writeTemp(t, "t.c", "int main(void) { return 0; }\n")
	var stdout, stderr bytes.Buffer
	err := run([]string{input}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "function _main")
}

func TestRunWritesToOutputFile(t *testing.T) {
	input := writeTemp(t, "t.c", "int main(void) { return 0; }\n")
	outPath := filepath.Join(t.TempDir(), "out.js")
	var stdout, stderr bytes.Buffer
	err := run([]string{input, "-o", outPath}, &stdout, &stderr)
	require.NoError(t, err)
	require.Empty(t, stdout.String())
	content, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)
	require.Contains(t, string(content), "function _main")
}

func TestRunPreprocessOnlyEmitsMacroExpansion(t *testing.T) {
	input := writeTemp(t, "t.c", "#define TWO 2\nint x = TWO;\n")
	var stdout, stderr bytes.Buffer
	err := run([]string{input, "-E"}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "2")
	require.NotContains(t, stdout.String(), "Runtime")
}

func TestRunReportsDiagnosticsAndExitCodeOnSemanticError(t *testing.T) {
	input := writeTemp(t, "t.c", "int f(void) { return undeclared_name; }\n")
	var stdout, stderr bytes.Buffer
	err := run([]string{input}, &stdout, &stderr)
	require.Error(t, err)
	require.NotEmpty(t, stderr.String())
}

func TestRunDefineFlagReachesPreprocessor(t *testing.T) {
	input := writeTemp(t, "t.c", "int x = FOO;\n")
	var stdout, stderr bytes.Buffer
	err := run([]string{input, "-E", "-D", "FOO=7"}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "7")
}

func TestRunMissingInputFileReportsError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{filepath.Join(t.TempDir(), "missing.c")}, &stdout, &stderr)
	require.Error(t, err)
}
