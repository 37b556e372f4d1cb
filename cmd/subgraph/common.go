package main

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/config"
	"github.com/yourusername/go-subgraph-bench/pipeline"
	"github.com/yourusername/go-subgraph-bench/report"
)

var samplingFlags struct {
	total    int64
	target   int64
	stride   int64
	boundary int64
	strategy string
}

func addPositionFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&samplingFlags.total, "total", config.DefaultTotalUsers, "estimated number of rows in the degree table")
	cmd.Flags().Int64Var(&samplingFlags.target, "target", config.DefaultTargetUsers, "wanted number of sampled users")
}

func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&samplingFlags.stride, "stride", config.DefaultRankStride, "keep every stride-th user by rank")
	cmd.Flags().Int64Var(&samplingFlags.boundary, "boundary", 0, "also keep every user ranked above this (0 disables)")
}

// loadSampling layers flags the user actually set over the file and
// environment config, then validates the result.
func loadSampling(cmd *cobra.Command) (config.SamplingConfig, error) {
	cfg, err := config.LoadSamplingConfig(rootFlags.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("total") {
		cfg.TotalUsers = samplingFlags.total
	}
	if flags.Changed("target") {
		cfg.TargetUsers = samplingFlags.target
	}
	if flags.Changed("stride") {
		cfg.RankStride = samplingFlags.stride
	}
	if flags.Changed("boundary") {
		cfg.RankBoundary = samplingFlags.boundary
	}
	if flags.Changed("strategy") {
		cfg.Strategy = samplingFlags.strategy
	}
	if flags.Changed("policy") {
		cfg.ParsePolicy = rootFlags.policy
	}
	return cfg, cfg.Validate()
}

func publisher() (report.Publisher, error) {
	p := report.Publisher{
		CSVPath:  rootFlags.reportCSV,
		FreshCSV: rootFlags.reportCSVFresh,
		LogPath:  rootFlags.reportLog,
	}
	if rootFlags.reportDB {
		db, err := config.OpenDB(config.LoadDBConfig(), nil)
		if err != nil {
			return p, err
		}
		p.Sink = &report.Sink{DB: db}
	}
	return p, nil
}

// stageRun is one stage's counters with the files it read.
type stageRun struct {
	stats  pipeline.Stats
	inputs []string
}

// publish sends the stages of one invocation to the configured report
// destinations under a fresh run id.
func publish(cfg config.SamplingConfig, sel *pipeline.UserSelection, runs ...stageRun) error {
	p, err := publisher()
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("closing report database")
		}
	}()
	if p.CSVPath == "" && p.LogPath == "" && p.Sink == nil {
		return nil
	}

	runID := uuid.New()
	params := cfg.Params()
	reports := make([]report.StageReport, 0, len(runs))
	for _, r := range runs {
		reports = append(reports, report.FromStats(runID, r.stats, r.inputs, params))
	}
	if err := p.Publish(reports, sel); err != nil {
		return err
	}
	log.Debug().Str("run", runID.String()).Int("stages", len(reports)).Msg("published reports")
	return nil
}

func invalidFlags(err error) error {
	return errors.Wrap(pipeline.ErrInvalidConfig, err.Error())
}
