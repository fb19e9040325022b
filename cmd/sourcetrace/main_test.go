package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sourcetrace/core"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"sourcetrace"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetupLogger(t *testing.T) {
	input := writeFile(t, "a.txt", "text")

	t.Run("unknown level is rejected", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "loud", "fingerprint", "--original", input, "--source", input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "WARN", "fingerprint", "--original", input, "--source", input)
		assert.NoError(t, err)
	})
}

func TestFingerprintCommand(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog while the farmer watches from the porch."
	original := writeFile(t, "original.txt", text)
	same := writeFile(t, "same.txt", "Preface. "+text+" Epilogue.")
	other := writeFile(t, "other.txt", "Completely unrelated prose about distributed consensus protocols and logs.")

	out, err := runApp(t, "fingerprint", "--original", original, "--source", same)
	require.NoError(t, err)
	assert.Equal(t, "coverage: 100.00%\n", out)

	out, err = runApp(t, "fingerprint", "--original", original, "--source", other)
	require.NoError(t, err)
	assert.Equal(t, "coverage: 0.00%\n", out)

	_, err = runApp(t, "fingerprint", "--original", original)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}

func TestSegmentCommand(t *testing.T) {
	input := writeFile(t, "essay.txt", "Water boils at 100 degrees Celsius at sea level. It freezes at zero.")

	out, err := runApp(t, "segment", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "block_0")
	assert.Contains(t, out, "Water boils")
	assert.Contains(t, out, "1 blocks")

	empty := writeFile(t, "empty.txt", "   ")
	_, err = runApp(t, "segment", "--input", empty)
	assert.ErrorIs(t, err, core.ErrInvalidDocument)
}

func TestAnalyzeCommand(t *testing.T) {
	input := writeFile(t, "essay.txt", "Water boils at 100 degrees Celsius at sea level.")

	t.Run("offline writes json", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "result.json")
		_, err := runApp(t, "analyze", "--input", input, "--offline", "--mode", "priority", "--output", output)
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		var result core.DocumentResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, "essay", result.DocID)
		require.Len(t, result.Blocks, 1)
		assert.Empty(t, result.Blocks[0].Candidates)
		require.Len(t, result.Verdicts, 1)
		assert.Equal(t, core.EvidenceIdea, result.Verdicts[0].Type)
	})

	t.Run("json document on stdout", func(t *testing.T) {
		doc := writeFile(t, "doc.json", `{"id":"paper","sections":[{"name":"intro","text":"Water boils at 100 degrees Celsius at sea level."}]}`)
		out, err := runApp(t, "analyze", "--input", doc, "--offline", "--progress=false")
		require.NoError(t, err)

		var result core.DocumentResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "paper", result.DocID)
		require.Len(t, result.Blocks, 1)
		assert.Equal(t, "intro", result.Blocks[0].Section)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := runApp(t, "analyze", "--input", input, "--offline", "--mode", "best")
		assert.Error(t, err)
	})

	t.Run("invalid cache backend", func(t *testing.T) {
		_, err := runApp(t, "analyze", "--input", input, "--offline", "--cache", "redis")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache backend")
	})

	t.Run("malformed candidates", func(t *testing.T) {
		candidates := writeFile(t, "candidates.json", "{")
		_, err := runApp(t, "analyze", "--input", input, "--candidates", candidates)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "candidates")
	})

	t.Run("input is required", func(t *testing.T) {
		_, err := runApp(t, "analyze", "--offline")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input")
	})
}
