package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// Strategy picks the sampler used to build the selection.
type Strategy string

const (
	StrategyRank     Strategy = "rank"
	StrategyPosition Strategy = "position"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRank, StrategyPosition:
		return Strategy(s), nil
	case "":
		return StrategyRank, nil
	default:
		return "", invalidConfig("unknown strategy %q", s)
	}
}

// Output file names inside RunConfig.OutDir.
const (
	DegreesFile   = "degrees.txt"
	SelectionFile = "selection.txt"
	SubgraphFile  = "subgraph.txt"
)

type RunConfig struct {
	EdgesPath string
	OutDir    string
	Strategy  Strategy
	Position  PositionParams
	Rank      RankParams
	Policy    edgelist.Policy
}

type RunResult struct {
	DegreesPath   string
	SelectionPath string
	SubgraphPath  string
	Selection     *UserSelection
	Stats         []Stats
}

// Run executes the whole pipeline: count degrees over the raw edges, sample
// a selection with the configured strategy, then compact the raw edges
// against it. Every stage writes its file before the next one reads it.
func Run(cfg RunConfig) (*RunResult, error) {
	if cfg.EdgesPath == "" || cfg.OutDir == "" {
		return nil, errors.Wrap(ErrUsage, "run needs an edge file and an output directory")
	}
	if err := validateStrategy(cfg); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}

	res := &RunResult{
		DegreesPath:   filepath.Join(cfg.OutDir, DegreesFile),
		SelectionPath: filepath.Join(cfg.OutDir, SelectionFile),
		SubgraphPath:  filepath.Join(cfg.OutDir, SubgraphFile),
	}

	stats, err := CountDegreesFile(cfg.EdgesPath, res.DegreesPath, WithPolicy(cfg.Policy))
	if err != nil {
		return res, err
	}
	res.Stats = append(res.Stats, stats)

	switch cfg.Strategy {
	case StrategyPosition:
		stats, err = SampleByPositionFile(res.DegreesPath, res.SelectionPath, cfg.Position, WithPolicy(cfg.Policy))
	default:
		stats, err = SampleByRankFile(res.DegreesPath, res.SelectionPath, cfg.Rank, WithPolicy(cfg.Policy))
	}
	if err != nil {
		return res, err
	}
	res.Stats = append(res.Stats, stats)

	sel, stats, err := CompactFile(res.SelectionPath, cfg.EdgesPath, res.SubgraphPath, WithPolicy(cfg.Policy))
	if err != nil {
		return res, err
	}
	res.Selection = sel
	res.Stats = append(res.Stats, stats)
	return res, nil
}

func validateStrategy(cfg RunConfig) error {
	switch cfg.Strategy {
	case StrategyPosition:
		_, err := cfg.Position.Interval()
		return err
	case StrategyRank, "":
		return cfg.Rank.Validate()
	default:
		return invalidConfig("unknown strategy %q", cfg.Strategy)
	}
}

// CountDegreesFile runs CountDegrees from one file into another.
func CountDegreesFile(in, out string, opts ...Option) (Stats, error) {
	var stats Stats
	err := withInput(in, func(r io.Reader) error {
		table, s, err := CountDegrees(r, append(opts, WithSource(in))...)
		stats = s
		if err != nil {
			return err
		}
		return WriteFile(out, table.Write)
	})
	return stats, err
}

func SampleByPositionFile(in, out string, p PositionParams, opts ...Option) (Stats, error) {
	if _, err := p.Interval(); err != nil {
		return Stats{Stage: StageSelectPosition}, err
	}
	var stats Stats
	err := withInput(in, func(r io.Reader) error {
		return WriteFile(out, func(w io.Writer) error {
			var err error
			stats, err = SampleByPosition(r, w, p, append(opts, WithSource(in))...)
			return err
		})
	})
	return stats, err
}

func SampleByRankFile(in, out string, p RankParams, opts ...Option) (Stats, error) {
	if err := p.Validate(); err != nil {
		return Stats{Stage: StageSelectRank}, err
	}
	var stats Stats
	err := withInput(in, func(r io.Reader) error {
		return WriteFile(out, func(w io.Writer) error {
			var err error
			stats, err = SampleByRank(r, w, p, append(opts, WithSource(in))...)
			return err
		})
	})
	return stats, err
}

// CompactFile builds the selection from selPath, then compacts edgesPath
// into out. The output file is not created unless the selection is valid.
func CompactFile(selPath, edgesPath, out string, opts ...Option) (*UserSelection, Stats, error) {
	var sel *UserSelection
	err := withInput(selPath, func(r io.Reader) error {
		var err error
		sel, err = BuildSelection(r, append(opts, WithSource(selPath))...)
		return err
	})
	if err != nil {
		return nil, Stats{Stage: StageCompact}, err
	}

	var stats Stats
	err = withInput(edgesPath, func(r io.Reader) error {
		return WriteFile(out, func(w io.Writer) error {
			var err error
			stats, err = Compact(sel, r, w, append(opts, WithSource(edgesPath))...)
			return err
		})
	})
	return sel, stats, err
}

func withInput(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &MissingInputError{Path: path, Err: err}
	}
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()
	return fn(f)
}

// WriteFile writes through a pending file next to path that is synced and
// renamed into place only if fn succeeds, so a failed stage never leaves a
// partial output behind. The path "-" writes to stdout.
func WriteFile(path string, fn func(io.Writer) error) error {
	if path == "-" || path == "" {
		return fn(os.Stdout)
	}

	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithStaticPermissions(0644))
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer pf.Cleanup()

	if err := fn(pf); err != nil {
		return err
	}
	return errors.Wrap(pf.CloseAtomicallyReplace(), "replace output")
}

// LoadDegreeTable reads a degree table file.
func LoadDegreeTable(path string, opts ...Option) (*DegreeTable, error) {
	var table *DegreeTable
	err := withInput(path, func(r io.Reader) error {
		var err error
		table, err = ReadDegreeTable(r, append(opts, WithSource(path))...)
		return err
	})
	return table, err
}
