package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/pipeline"
)

var compactFlags struct {
	out string
}

var compactCmd = &cobra.Command{
	Use:   "compact <selection> <edges>",
	Short: "Keep edges between selected users, remapped to dense ids",
	Long: `Assign dense ids 0..N-1 to the users of a selection file in file order (first
column only), then write N followed by every edge whose endpoints are both
selected, in source order. A repeated user in the selection is fatal and no
output is written.

Examples:
  subgraph compact selection.txt edges.txt --out subgraph.txt`,
	Args: exactArgs(2),
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().StringVarP(&compactFlags.out, "out", "o", "-", "output file (- for stdout)")
	rootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, args []string) error {
	cfg, err := loadSampling(cmd)
	if err != nil {
		return err
	}
	sel, stats, err := pipeline.CompactFile(args[0], args[1], compactFlags.out, pipeline.WithPolicy(cfg.Policy()))
	if err != nil {
		return err
	}
	return publish(cfg, sel, stageRun{stats: stats, inputs: args})
}
