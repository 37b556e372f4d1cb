package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/pipeline"
)

var selectFlags struct {
	out string
}

var selectPositionCmd = &cobra.Command{
	Use:   "select-position <degrees>",
	Short: "Keep every k-th row of a degree table, k = total / target",
	Long: `Copy rows at 1-based positions k, 2k, 3k, ... of a degree table, where
k = floor(total / target). Row order and content are unchanged.

Examples:
  subgraph select-position degrees.txt --total 40103281 --target 50000 --out selection.txt`,
	Args: exactArgs(1),
	RunE: runSelectPosition,
}

var selectRankCmd = &cobra.Command{
	Use:   "select-rank <degrees>",
	Short: "Keep users by rank in ascending degree order",
	Long: `Rank users 1..N by ascending degree (ties by user id) and keep rank r when
r is a multiple of --stride, or when --boundary is positive and r exceeds it.
Rows are written as "user degree" in rank order.

Examples:
  subgraph select-rank degrees.txt --stride 10 --out selection.txt
  subgraph select-rank degrees.txt --stride 10 --boundary 1822870`,
	Args: exactArgs(1),
	RunE: runSelectRank,
}

func init() {
	for _, c := range []*cobra.Command{selectPositionCmd, selectRankCmd} {
		c.Flags().StringVarP(&selectFlags.out, "out", "o", "-", "output file (- for stdout)")
	}
	addPositionFlags(selectPositionCmd)
	addRankFlags(selectRankCmd)
	rootCmd.AddCommand(selectPositionCmd, selectRankCmd)
}

func runSelectPosition(cmd *cobra.Command, args []string) error {
	cfg, err := loadSampling(cmd)
	if err != nil {
		return err
	}
	stats, err := pipeline.SampleByPositionFile(args[0], selectFlags.out, cfg.Position(), pipeline.WithPolicy(cfg.Policy()))
	if err != nil {
		return err
	}
	return publish(cfg, nil, stageRun{stats: stats, inputs: args})
}

func runSelectRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadSampling(cmd)
	if err != nil {
		return err
	}
	stats, err := pipeline.SampleByRankFile(args[0], selectFlags.out, cfg.Rank(), pipeline.WithPolicy(cfg.Policy()))
	if err != nil {
		return err
	}
	return publish(cfg, nil, stageRun{stats: stats, inputs: args})
}
