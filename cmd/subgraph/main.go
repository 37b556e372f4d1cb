// Command subgraph samples a large follow graph down to a dense, compact
// subgraph: degree counting, user selection and edge compaction.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/pipeline"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitUsage
	exitParse
	exitDuplicate
	exitConfig
)

var rootFlags struct {
	configPath     string
	policy         string
	logLevel       string
	reportCSV      string
	reportCSVFresh bool
	reportLog      string
	reportDB       bool
}

var rootCmd = &cobra.Command{
	Use:   "subgraph",
	Short: "Sample a follow graph into a compact subgraph",
	Long: `Sample a large follow graph ("source target" lines) into a subgraph with
dense ids 0..N-1.

Stages:
  degrees          count out-degrees per user
  select-position  keep every k-th row of a degree table
  select-rank      keep users by rank in ascending degree order
  compact          keep edges between selected users, remapped to dense ids

run chains all three stages into an output directory.

Sampling parameters are read from defaults, then --config (or SUBGRAPH_CONFIG),
then SUBGRAPH_* environment variables (.env is loaded), then flags.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "YAML file with sampling parameters")
	pf.StringVar(&rootFlags.policy, "policy", "", "malformed line policy: skip or strict (default skip)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.reportCSV, "report-csv", "", "append per-stage counters to this CSV file")
	pf.BoolVar(&rootFlags.reportCSVFresh, "report-csv-fresh", false, "truncate --report-csv before writing")
	pf.StringVar(&rootFlags.reportLog, "report-log", "", "append per-stage reports to this JSONL file")
	pf.BoolVar(&rootFlags.reportDB, "report-db", false, "store reports in postgres (DB_* environment)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(pipeline.ErrUsage, err.Error())
	})
}

func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(rootFlags.logLevel))
	if err != nil {
		return errors.Wrapf(pipeline.ErrUsage, "bad --log-level %q", rootFlags.logLevel)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// exactArgs is cobra.ExactArgs with an error the exit code mapping knows.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.Wrapf(pipeline.ErrUsage, "%s takes %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return errors.Wrapf(pipeline.ErrUsage, "%s takes at least %d argument(s)", cmd.Name(), n)
		}
		return nil
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrUsage):
		return exitUsage
	case errors.Is(err, pipeline.ErrParse):
		return exitParse
	case errors.Is(err, pipeline.ErrDuplicateUser):
		return exitDuplicate
	case errors.Is(err, pipeline.ErrInvalidConfig):
		return exitConfig
	default:
		return exitFailure
	}
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteC()
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		err = errors.Wrap(pipeline.ErrUsage, err.Error())
	}
	code := exitCode(err)
	if err == nil {
		return code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if code == exitUsage && cmd != nil {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return code
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
