package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, "csv", cfg.Source.Kind)
	assert.Equal(t, 100, cfg.Dashboard.RecordsLimit)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.FetchTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Ingest.BatchWait)
	assert.Len(t, cfg.CORS.AllowOrigins, 4)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_MergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  kind: mysql\nhttp:\n  addr: \":9999\"\n"), 0o600))

	t.Setenv("INSIGHTS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Source.Kind)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "sample_data.csv", cfg.Source.CSVPath)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
}
