package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("EXPO_PUBLIC_OPENAI_API_KEY", "")
	chdir(t, t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRankOfflineJSON(t *testing.T) {
	out, err := run(t, "rank", "--offline", "--json", "--strategy", "long_term_hold")
	require.NoError(t, err)

	var body struct {
		Strategy        string           `json:"strategy"`
		Source          string           `json:"source"`
		Recommendations []map[string]any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body), out)
	assert.Equal(t, "long-term-hodl", body.Strategy)
	assert.Equal(t, "fallback", body.Source)
	assert.Len(t, body.Recommendations, 2)
}

func TestRankOfflineTableWithNarrative(t *testing.T) {
	out, err := run(t, "rank", "--offline", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "BTC")
	assert.Contains(t, out, "Bullish")
}

func TestRankUnknownStrategy(t *testing.T) {
	_, err := run(t, "rank", "--offline", "--strategy", "moonshot")
	assert.Error(t, err)
}

func TestStrategiesCmd(t *testing.T) {
	out, err := run(t, "strategies", "--json")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 9)
	assert.Equal(t, "wealth-building", list[0]["id"])
}

// chdir is a go1.21-compatible stand-in for testing.T.Chdir (added in go1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
