package pipeline

import (
	"fmt"
	"math/bits"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the out-degree distribution of a degree table, so a
// sample can be checked against the graph it was drawn from.
type Summary struct {
	Users  int64
	Edges  int64
	Min    int64
	Max    int64
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
	P99    float64
}

// Summarize computes a Summary. An empty input yields the zero Summary.
func Summarize(records []DegreeRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	x := make([]float64, len(records))
	var edges int64
	for i, rec := range records {
		x[i] = float64(rec.Degree)
		edges += rec.Degree
	}
	sort.Float64s(x)

	s := Summary{
		Users:  int64(len(records)),
		Edges:  edges,
		Min:    int64(x[0]),
		Max:    int64(x[len(x)-1]),
		Median: stat.Quantile(0.5, stat.Empirical, x, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, x, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, x, nil),
	}
	if len(x) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	} else {
		s.Mean = x[0]
	}
	return s
}

// Bucket counts users whose degree falls in [Low, High].
type Bucket struct {
	Low, High int64
	Users     int64
}

func (b Bucket) Label() string {
	if b.Low == b.High {
		return fmt.Sprint(b.Low)
	}
	return fmt.Sprintf("%d-%d", b.Low, b.High)
}

// Histogram groups degrees into power-of-two buckets: 0, 1, 2-3, 4-7, ...
// Empty buckets between populated ones are kept so shapes line up.
func Histogram(records []DegreeRecord) []Bucket {
	var counts []int64
	for _, rec := range records {
		i := bucketOf(rec.Degree)
		for len(counts) <= i {
			counts = append(counts, 0)
		}
		counts[i]++
	}

	buckets := make([]Bucket, len(counts))
	for i, n := range counts {
		low, high := bucketRange(i)
		buckets[i] = Bucket{Low: low, High: high, Users: n}
	}
	return buckets
}

func bucketOf(degree int64) int {
	if degree <= 0 {
		return 0
	}
	return bits.Len64(uint64(degree))
}

func bucketRange(i int) (int64, int64) {
	if i == 0 {
		return 0, 0
	}
	low := int64(1) << (i - 1)
	return low, low<<1 - 1
}
