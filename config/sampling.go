package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/yourusername/go-subgraph-bench/edgelist"
	"github.com/yourusername/go-subgraph-bench/pipeline"
)

const (
	DefaultTotalUsers  = 40103281
	DefaultTargetUsers = 50000
	DefaultRankStride  = 10
)

// SamplingConfig holds the sampler parameters. Values are layered: defaults,
// then the YAML file, then the environment, then CLI flags.
type SamplingConfig struct {
	TotalUsers   int64  `yaml:"total_users"`
	TargetUsers  int64  `yaml:"target_users"`
	RankStride   int64  `yaml:"rank_stride"`
	RankBoundary int64  `yaml:"rank_boundary"`
	Strategy     string `yaml:"strategy"`
	ParsePolicy  string `yaml:"parse_policy"`
}

func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		TotalUsers:  DefaultTotalUsers,
		TargetUsers: DefaultTargetUsers,
		RankStride:  DefaultRankStride,
		Strategy:    string(pipeline.StrategyRank),
		ParsePolicy: edgelist.Skip.String(),
	}
}

// LoadSamplingConfig builds the config from defaults, the YAML file at path
// (or $SUBGRAPH_CONFIG when path is empty) and SUBGRAPH_* variables. It does
// not validate; callers apply flag overrides first.
func LoadSamplingConfig(path string) (SamplingConfig, error) {
	_ = godotenv.Load()
	cfg := DefaultSamplingConfig()

	if path == "" {
		path = os.Getenv("SUBGRAPH_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read sampling config")
		}
		if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(pipeline.ErrInvalidConfig, "%s: %v", path, err)
		}
	}

	for key, dst := range map[string]*int64{
		"SUBGRAPH_TOTAL_USERS":   &cfg.TotalUsers,
		"SUBGRAPH_TARGET_USERS":  &cfg.TargetUsers,
		"SUBGRAPH_RANK_STRIDE":   &cfg.RankStride,
		"SUBGRAPH_RANK_BOUNDARY": &cfg.RankBoundary,
	} {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, errors.Wrapf(pipeline.ErrInvalidConfig, "%s=%q is not an integer", key, v)
		}
		*dst = n
	}
	cfg.Strategy = getenv("SUBGRAPH_STRATEGY", cfg.Strategy)
	cfg.ParsePolicy = getenv("SUBGRAPH_PARSE_POLICY", cfg.ParsePolicy)
	return cfg, nil
}

// Validate checks every field, including the ones the chosen strategy does
// not use, so a bad value is caught before any stage runs.
func (c SamplingConfig) Validate() error {
	if _, err := c.Position().Interval(); err != nil {
		return err
	}
	if err := c.Rank().Validate(); err != nil {
		return err
	}
	if _, err := pipeline.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := edgelist.ParsePolicy(c.ParsePolicy); err != nil {
		return errors.Wrap(pipeline.ErrInvalidConfig, err.Error())
	}
	return nil
}

func (c SamplingConfig) Position() pipeline.PositionParams {
	return pipeline.PositionParams{TotalUsers: c.TotalUsers, TargetUsers: c.TargetUsers}
}

func (c SamplingConfig) Rank() pipeline.RankParams {
	return pipeline.RankParams{Stride: c.RankStride, Boundary: c.RankBoundary}
}

// Policy returns the parse policy, falling back to skip for unknown names.
// Validate reports those.
func (c SamplingConfig) Policy() edgelist.Policy {
	p, _ := edgelist.ParsePolicy(c.ParsePolicy)
	return p
}

// Params describes the config for run reports.
func (c SamplingConfig) Params() map[string]interface{} {
	return map[string]interface{}{
		"total_users":   c.TotalUsers,
		"target_users":  c.TargetUsers,
		"rank_stride":   c.RankStride,
		"rank_boundary": c.RankBoundary,
		"strategy":      c.Strategy,
		"parse_policy":  c.ParsePolicy,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
