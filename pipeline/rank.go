package pipeline

import (
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// RankParams configures the rank sampler.
//
// Users are ranked 1..N by ascending degree. A user is kept when its rank is
// a multiple of Stride, or when Boundary is positive and its rank exceeds
// Boundary. The second clause always keeps the highest-degree tail, which a
// 1-in-Stride cadence would otherwise thin out. Boundary 0 turns it off.
type RankParams struct {
	Stride   int64
	Boundary int64
}

func (p RankParams) Validate() error {
	if p.Stride < 1 {
		return invalidConfig("rank stride must be at least 1, got %d", p.Stride)
	}
	if p.Boundary < 0 {
		return invalidConfig("rank boundary must not be negative, got %d", p.Boundary)
	}
	return nil
}

// Keep reports whether the user at the given 1-based rank is sampled.
func (p RankParams) Keep(rank int64) bool {
	return rank%p.Stride == 0 || (p.Boundary > 0 && rank > p.Boundary)
}

// SortByDegree orders records by ascending degree, breaking ties by
// ascending user id so the order does not depend on input order.
func SortByDegree(records []DegreeRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Degree != records[j].Degree {
			return records[i].Degree < records[j].Degree
		}
		return records[i].UserID < records[j].UserID
	})
}

// RankSample sorts records in place and returns the kept subsequence, still
// in ascending degree order.
func RankSample(records []DegreeRecord, p RankParams) ([]DegreeRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	SortByDegree(records)

	var kept []DegreeRecord
	for i, rec := range records {
		if p.Keep(int64(i + 1)) {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}

// SampleByRank reads a degree table from r and writes the rank sample to w
// as "user degree" rows.
func SampleByRank(r io.Reader, w io.Writer, p RankParams, opts ...Option) (Stats, error) {
	stats := Stats{Stage: StageSelectRank}
	if err := p.Validate(); err != nil {
		return stats, err
	}

	start := time.Now()
	table, er, err := readDegreeTable(r, newOptions(opts))
	stats.LinesRead = er.Line()
	stats.Skipped = er.Skipped()
	if err != nil {
		return stats, errors.Wrap(err, "sample by rank")
	}

	kept, err := RankSample(table.Records(), p)
	if err != nil {
		return stats, err
	}

	ew := edgelist.NewWriter(w)
	for _, rec := range kept {
		if err := ew.WritePair(rec.UserID, rec.Degree); err != nil {
			return stats, err
		}
	}
	if err := ew.Flush(); err != nil {
		return stats, err
	}

	stats.Emitted = ew.Records()
	stats.Users = ew.Records()
	stats.Duration = time.Since(start)
	stats.log()
	return stats, nil
}
