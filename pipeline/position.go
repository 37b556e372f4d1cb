package pipeline

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// PositionParams configures the position sampler. TotalUsers is an estimate
// of the rows in the input; TargetUsers is the wanted sample size.
type PositionParams struct {
	TotalUsers  int64
	TargetUsers int64
}

// Interval is floor(TotalUsers / TargetUsers). A zero interval (target at or
// above the total) is rejected rather than guessed at.
func (p PositionParams) Interval() (int64, error) {
	if p.TotalUsers <= 0 {
		return 0, invalidConfig("total users must be positive, got %d", p.TotalUsers)
	}
	if p.TargetUsers <= 0 {
		return 0, invalidConfig("target users must be positive, got %d", p.TargetUsers)
	}
	interval := p.TotalUsers / p.TargetUsers
	if interval == 0 {
		return 0, invalidConfig("target users %d exceeds total users %d", p.TargetUsers, p.TotalUsers)
	}
	return interval, nil
}

// SampleByPosition copies every interval-th row of r to w, at 1-based
// positions interval, 2*interval, ... The input order is kept; rows are not
// weighted by their second column.
func SampleByPosition(r io.Reader, w io.Writer, p PositionParams, opts ...Option) (Stats, error) {
	stats := Stats{Stage: StageSelectPosition}
	interval, err := p.Interval()
	if err != nil {
		return stats, err
	}

	o := newOptions(opts)
	start := time.Now()
	er := edgelist.NewReader(r, o.reader()...)
	ew := edgelist.NewWriter(w)

	var counter int64
	for er.Next() {
		counter++
		if counter != interval {
			continue
		}
		counter = 0
		pair := er.Pair()
		if err := ew.WritePair(pair.A, pair.B); err != nil {
			return stats, err
		}
	}

	stats.LinesRead = er.Line()
	stats.Skipped = er.Skipped()
	stats.Emitted = ew.Records()
	stats.Users = ew.Records()
	if err := er.Err(); err != nil {
		return stats, errors.Wrap(err, "sample by position")
	}
	if err := ew.Flush(); err != nil {
		return stats, err
	}
	stats.Duration = time.Since(start)
	stats.log()
	return stats, nil
}
