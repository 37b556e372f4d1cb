package main

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/pipeline"
	"github.com/yourusername/go-subgraph-bench/workload"
)

var generateFlags struct {
	params workload.Params
	top    int
}

var generateCmd = &cobra.Command{
	Use:   "generate <out>",
	Short: "Write a synthetic follow graph with skewed out-degrees",
	Long: `Write --edges "source target" lines. Sources follow a Zipf distribution so
a few users follow very many others; targets are uniform. The same flags
always produce the same file.

Examples:
  subgraph generate edges.txt --users 100000 --edges 1000000
  subgraph generate - --users 1000 --edges 5000 --skew 1.8 --spacing 7`,
	Args: exactArgs(1),
	RunE: runGenerate,
}

func init() {
	d := workload.DefaultParams()
	f := generateCmd.Flags()
	f.Int64Var(&generateFlags.params.Users, "users", d.Users, "number of distinct user ids")
	f.Int64Var(&generateFlags.params.Edges, "edges", d.Edges, "number of edges to write")
	f.Float64Var(&generateFlags.params.Skew, "skew", d.Skew, "Zipf s parameter (> 1); larger is more skewed")
	f.Float64Var(&generateFlags.params.V, "zipf-v", d.V, "Zipf v parameter (>= 1)")
	f.Int64Var(&generateFlags.params.Seed, "seed", d.Seed, "random seed")
	f.Int64Var(&generateFlags.params.Spacing, "spacing", d.Spacing, "multiply every id, giving sparse ids when > 1")
	f.Int64Var(&generateFlags.params.Offset, "offset", d.Offset, "add to every id")
	f.BoolVar(&generateFlags.params.Scatter, "scatter", d.Scatter, "spread hub users over the id range")
	f.IntVar(&generateFlags.top, "top", 5, "log this many highest-degree sources")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, args []string) error {
	if err := generateFlags.params.Validate(); err != nil {
		return invalidFlags(err)
	}
	var res *workload.Result
	err := pipeline.WriteFile(args[0], func(w io.Writer) error {
		var err error
		res, err = workload.GenerateFollowGraph(w, generateFlags.params)
		return err
	})
	if err != nil {
		return err
	}
	for _, s := range res.Top(generateFlags.top) {
		log.Info().Int64("user", s.UserID).Int64("edges", s.Edges).Msg("hub")
	}
	return nil
}
