package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/pipeline"
)

var degreesFlags struct {
	out string
}

var degreesCmd = &cobra.Command{
	Use:   "degrees <edges>",
	Short: "Count the out-degree of every source user",
	Long: `Read "source target" lines and write one "user degree" line per distinct
source, ascending by user id, followed by a "# users N" trailer.

Examples:
  subgraph degrees edges.txt --out degrees.txt
  subgraph degrees edges.txt --policy strict > degrees.txt`,
	Args: exactArgs(1),
	RunE: runDegrees,
}

func init() {
	degreesCmd.Flags().StringVarP(&degreesFlags.out, "out", "o", "-", "output file (- for stdout)")
	rootCmd.AddCommand(degreesCmd)
}

func runDegrees(cmd *cobra.Command, args []string) error {
	cfg, err := loadSampling(cmd)
	if err != nil {
		return err
	}
	stats, err := pipeline.CountDegreesFile(args[0], degreesFlags.out, pipeline.WithPolicy(cfg.Policy()))
	if err != nil {
		return err
	}
	return publish(cfg, nil, stageRun{stats: stats, inputs: args})
}
