package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 200, cfg.Cache.Response.MaxEntries)
	assert.Equal(t, 900, cfg.Cache.Embedding.TTLSeconds)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.3, cfg.Retrieval.Threshold, 1e-9)
	assert.InDelta(t, 0.45, cfg.Answer.MinConfidence, 1e-9)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legal.yaml")
	yamlDoc := `
server:
  addr: ":9000"
index:
  root: /data/indexes
  languages: [en, hi]
qa:
  provider: http
  endpoint: http://localhost:8090/qa
retrieval:
  top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv(EnvEmbeddingAPIKey, "sk-embed")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/data/indexes", cfg.Index.Root)
	assert.Equal(t, []string{"en", "hi"}, cfg.Index.Languages)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// untouched sections keep their defaults
	assert.InDelta(t, 0.3, cfg.Retrieval.Threshold, 1e-9)
	assert.Equal(t, 30000, cfg.Server.RequestTimeoutMs)
	assert.Equal(t, "sk-embed", cfg.Embedding.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Retrieval.Threshold = 1.5
	cfg.Cache.Response.MaxEntries = 0
	cfg.QA.Provider = "http"
	cfg.Index.Languages = []string{"fr"}

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "retrieval.threshold")
	assert.Contains(t, fields, "cache.response.max_entries")
	assert.Contains(t, fields, "qa.endpoint")
	assert.Contains(t, fields, "index.languages")
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "dashscope"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding.provider")
}
