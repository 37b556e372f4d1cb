package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/pipeline"
)

var statsFlags struct {
	histogram bool
}

var statsCmd = &cobra.Command{
	Use:   "stats <degrees>...",
	Short: "Summarize the degree distribution of one or more degree tables",
	Long: `Print users, edges and degree mean, spread and quantiles for each degree
table, one row per file, so a sample can be compared with the full graph.

Examples:
  subgraph stats out/degrees.txt sample-degrees.txt
  subgraph stats out/degrees.txt --histogram`,
	Args: minArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsFlags.histogram, "histogram", false, "also print a power-of-two degree histogram per file")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadSampling(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"file", "users", "edges", "min", "max", "mean", "stddev", "p50", "p90", "p99"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var histograms [][]pipeline.Bucket
	for _, path := range args {
		degrees, err := pipeline.LoadDegreeTable(path, pipeline.WithPolicy(cfg.Policy()))
		if err != nil {
			return err
		}
		records := degrees.Records()
		s := pipeline.Summarize(records)
		table.Append([]string{
			path,
			strconv.FormatInt(s.Users, 10),
			strconv.FormatInt(s.Edges, 10),
			strconv.FormatInt(s.Min, 10),
			strconv.FormatInt(s.Max, 10),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.StdDev),
			fmt.Sprintf("%.0f", s.Median),
			fmt.Sprintf("%.0f", s.P90),
			fmt.Sprintf("%.0f", s.P99),
		})
		if statsFlags.histogram {
			histograms = append(histograms, pipeline.Histogram(records))
		}
	}
	table.Render()

	for i, buckets := range histograms {
		fmt.Fprintf(out, "\n%s\n", args[i])
		hist := tablewriter.NewWriter(out)
		hist.SetHeader([]string{"degree", "users"})
		hist.SetBorder(false)
		hist.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
		for _, b := range buckets {
			hist.Append([]string{b.Label(), strconv.FormatInt(b.Users, 10)})
		}
		hist.Render()
	}
	return nil
}
