package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestAskGreeting(t *testing.T) {
	cfg := writeConfig(t, "index:\n  root: "+t.TempDir()+"\nlog:\n  level: error\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ask", "--config", cfg, "--lang", "hi", "नमस्ते"})
	require.NoError(t, cmd.Execute())

	var resp schema.SearchResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "Greeting", resp.Title)
	assert.Equal(t, "hi", resp.Language)
}

func TestAskMissingIndexesReportsRoot(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t, "index:\n  root: "+root+"\nembedding:\n  provider: openai\n  model: text-embedding-3-small\n  base_url: http://127.0.0.1:1\nlog:\n  level: error\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ask", "--config", cfg, "what is the punishment for theft"})
	err := cmd.Execute()

	var cfgErr *schema.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), root)
}

func TestAskUnsupportedLanguage(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ask", "--log-level", "error", "--lang", "fr", "quelle est la peine pour vol"})
	assert.ErrorIs(t, cmd.Execute(), schema.ErrUnsupportedLanguage)
}

func TestBadConfigFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ask", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "hello there friend"})
	assert.Error(t, cmd.Execute())
}
