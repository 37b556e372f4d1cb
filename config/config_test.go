package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/go-subgraph-bench/edgelist"
	"github.com/yourusername/go-subgraph-bench/pipeline"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SUBGRAPH_CONFIG", "SUBGRAPH_TOTAL_USERS", "SUBGRAPH_TARGET_USERS",
		"SUBGRAPH_RANK_STRIDE", "SUBGRAPH_RANK_BOUNDARY", "SUBGRAPH_STRATEGY", "SUBGRAPH_PARSE_POLICY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadSamplingConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadSamplingConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSamplingConfig(), cfg)
	require.NoError(t, cfg.Validate())

	interval, err := cfg.Position().Interval()
	require.NoError(t, err)
	assert.Equal(t, int64(802), interval)
	assert.Equal(t, pipeline.RankParams{Stride: 10}, cfg.Rank())
	assert.Equal(t, edgelist.Skip, cfg.Policy())
}

func TestLoadSamplingConfig_Layers(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sampling.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"total_users: 1000\ntarget_users: 10\nrank_stride: 4\nstrategy: position\n"), 0644))

	t.Setenv("SUBGRAPH_CONFIG", path)
	t.Setenv("SUBGRAPH_RANK_STRIDE", "7")
	t.Setenv("SUBGRAPH_PARSE_POLICY", "strict")

	cfg, err := LoadSamplingConfig("")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cfg.TotalUsers)
	assert.Equal(t, int64(10), cfg.TargetUsers)
	assert.Equal(t, int64(7), cfg.RankStride)
	assert.Equal(t, "position", cfg.Strategy)
	assert.Equal(t, edgelist.Strict, cfg.Policy())
	assert.Equal(t, "strict", cfg.Params()["parse_policy"])
	require.NoError(t, cfg.Validate())
}

func TestLoadSamplingConfig_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := LoadSamplingConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rank_strid: 3\n"), 0644))
	_, err = LoadSamplingConfig(bad)
	assert.True(t, errors.Is(err, pipeline.ErrInvalidConfig))

	t.Setenv("SUBGRAPH_TARGET_USERS", "lots")
	_, err = LoadSamplingConfig("")
	assert.True(t, errors.Is(err, pipeline.ErrInvalidConfig))
}

func TestSamplingConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SamplingConfig)
	}{
		{"zero target", func(c *SamplingConfig) { c.TargetUsers = 0 }},
		{"zero total", func(c *SamplingConfig) { c.TotalUsers = 0 }},
		{"target above total", func(c *SamplingConfig) { c.TargetUsers = c.TotalUsers + 1 }},
		{"zero stride", func(c *SamplingConfig) { c.RankStride = 0 }},
		{"negative boundary", func(c *SamplingConfig) { c.RankBoundary = -1 }},
		{"unknown strategy", func(c *SamplingConfig) { c.Strategy = "uniform" }},
		{"unknown policy", func(c *SamplingConfig) { c.ParsePolicy = "lenient" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSamplingConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, pipeline.ErrInvalidConfig), err.Error())
		})
	}
}

func TestDBConfig(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	cfg := LoadDBConfig()
	assert.False(t, cfg.Enabled())
	assert.Equal(t, "5432", cfg.Port)

	_, err := OpenDB(cfg, nil)
	assert.Error(t, err)

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "subgraph")
	cfg = LoadDBConfig()
	assert.True(t, cfg.Enabled())
	assert.Contains(t, cfg.dsn(cfg.DBName), "host=db.internal")
	assert.Contains(t, cfg.dsn(cfg.DBName), "dbname=subgraph")
}
