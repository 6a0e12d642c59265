package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/CTAG07/trigram/cmd/trigram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the program with a throwaway config file and the given stdin.
func runCLI(t *testing.T, configPath, stdin string, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.Stdin = strings.NewReader(stdin)
	t.Cleanup(func() { _ = m.Close() })

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), append([]string{"--config", configPath}, args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "trigram.json")
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without a command", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "generate")
		assert.Contains(t, stdout.String(), "score")
	})

	t.Run("subcommand help does not run the command", func(t *testing.T) {
		t.Parallel()

		configPath := tempConfig(t)
		stdout, _, err := runCLI(t, configPath, "the cat sat on the mat", "generate", "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "--max-length")
		assert.NotContains(t, stdout, "the mat")
		_, err = os.Stat(configPath)
		assert.True(t, os.IsNotExist(err), "config should not be loaded for help")
	})

	t.Run("subcommand help skips required arguments", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, tempConfig(t), "", "score", "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Text to score")
		assert.NotContains(t, stdout, "log_prob:")
	})

	t.Run("writes a default config file", func(t *testing.T) {
		t.Parallel()

		configPath := tempConfig(t)
		_, _, err := runCLI(t, configPath, "", "stats", "a b c")

		require.NoError(t, err)
		_, err = os.Stat(configPath)
		assert.NoError(t, err)
	})
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("continues a fixed start pair greedily", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, tempConfig(t), "", "generate", "The cat sat on the mat", "--from", "the,cat", "-n", "6")

		require.NoError(t, err)
		assert.Equal(t, "the cat sat on the mat\n", stdout)
	})

	t.Run("reads training text from stdin", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, tempConfig(t), "the cat sat on the mat", "generate", "--from", "sat,on", "-n", "4")

		require.NoError(t, err)
		assert.Equal(t, "sat on the mat\n", stdout)
	})

	t.Run("same seed gives the same output", func(t *testing.T) {
		t.Parallel()

		corpus := "one fish two fish. red fish blue fish."
		first, _, err := runCLI(t, tempConfig(t), "", "generate", corpus, "--seed", "42", "-n", "8")
		require.NoError(t, err)
		second, _, err := runCLI(t, tempConfig(t), "", "generate", corpus, "--seed", "42", "-n", "8")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, strings.Fields(first), 8)
	})

	t.Run("lowercases the start pair", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, tempConfig(t), "", "generate", "the cat sat on the mat", "--from", "The,CAT", "-n", "6")

		require.NoError(t, err)
		assert.Equal(t, "the cat sat on the mat\n", stdout)
	})

	t.Run("prints an empty line for an empty corpus", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, tempConfig(t), "", "generate")

		require.NoError(t, err)
		assert.Equal(t, "\n", stdout)
	})

	t.Run("rejects a start pair of the wrong size", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, tempConfig(t), "", "generate", "a b c", "--from", "a")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly two tokens")
	})
}

func TestScoreCmd_Run(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, tempConfig(t), "", "score", "the cat sat on the mat", "the cat sat")

	require.NoError(t, err)
	assert.Contains(t, stdout, "trigrams: 1")
	assert.Contains(t, stdout, "log_prob: -1.098612")
	assert.Contains(t, stdout, "perplexity: 3.0000")
}

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, tempConfig(t), "", "stats", "the cat sat on the mat")

	require.NoError(t, err)
	assert.Contains(t, stdout, "vocab_size: 5")
	assert.Contains(t, stdout, "total_tokens: 6")
	assert.Contains(t, stdout, "unique_bigrams: 5")
	assert.Contains(t, stdout, "unique_trigrams: 4")
}

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded runs newest first", func(t *testing.T) {
		t.Parallel()

		configPath := tempConfig(t)
		dbPath := filepath.Join(t.TempDir(), "history.db")
		corpus := "the cat sat on the mat"

		_, _, err := runCLI(t, configPath, "", "--history-db", dbPath, "generate", corpus, "--from", "the,cat", "-n", "6")
		require.NoError(t, err)
		_, _, err = runCLI(t, configPath, "", "--history-db", dbPath, "generate", corpus, "--from", "sat,on", "-n", "4")
		require.NoError(t, err)

		stdout, _, err := runCLI(t, configPath, "", "--history-db", dbPath, "history")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "\tsat on the mat")
		assert.Contains(t, lines[1], "\tthe cat sat on the mat")
		assert.Contains(t, lines[1], "vocab=5")
	})

	t.Run("records a replayable seed when none is given", func(t *testing.T) {
		t.Parallel()

		configPath := tempConfig(t)
		dbPath := filepath.Join(t.TempDir(), "history.db")
		corpus := "one fish two fish. red fish blue fish."

		generated, _, err := runCLI(t, configPath, "", "--history-db", dbPath, "generate", corpus, "-n", "8")
		require.NoError(t, err)

		listing, _, err := runCLI(t, configPath, "", "--history-db", dbPath, "history")
		require.NoError(t, err)
		fields := strings.Split(strings.TrimSpace(listing), "\t")
		require.Len(t, fields, 5)
		seed, ok := strings.CutPrefix(fields[2], "seed=")
		require.True(t, ok, "listing %q has no seed column", listing)
		assert.NotEqual(t, "0", seed)

		replayed, _, err := runCLI(t, tempConfig(t), "", "generate", corpus, "-n", "8", "--seed", seed)
		require.NoError(t, err)
		assert.Equal(t, generated, replayed)
	})

	t.Run("reports an empty history", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "history.db")
		stdout, _, err := runCLI(t, tempConfig(t), "", "--history-db", dbPath, "history")

		require.NoError(t, err)
		assert.Contains(t, stdout, "No runs recorded")
	})

	t.Run("fails when history is disabled", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, tempConfig(t), "", "history")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "history is disabled")
	})
}
