package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []DegreeRecord{
		{UserID: 1, Degree: 4},
		{UserID: 2, Degree: 1},
		{UserID: 3, Degree: 2},
		{UserID: 4, Degree: 1},
		{UserID: 5, Degree: 2},
	}
	s := Summarize(records)

	assert.Equal(t, int64(5), s.Users)
	assert.Equal(t, int64(10), s.Edges)
	assert.Equal(t, int64(1), s.Min)
	assert.Equal(t, int64(4), s.Max)
	assert.InDelta(t, 2.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.2247, s.StdDev, 1e-3)
	assert.Equal(t, 2.0, s.Median)
	assert.Equal(t, 4.0, s.P99)
}

func TestSummarize_Small(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	s := Summarize([]DegreeRecord{{UserID: 9, Degree: 7}})
	assert.Equal(t, 7.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 7.0, s.Median)
}

func TestHistogram(t *testing.T) {
	records := []DegreeRecord{
		{UserID: 1, Degree: 1},
		{UserID: 2, Degree: 3},
		{UserID: 3, Degree: 2},
		{UserID: 4, Degree: 9},
	}
	buckets := Histogram(records)

	labels := make([]string, len(buckets))
	counts := make([]int64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label()
		counts[i] = b.Users
	}
	assert.Equal(t, []string{"0", "1", "2-3", "4-7", "8-15"}, labels)
	assert.Equal(t, []int64{0, 1, 2, 0, 1}, counts)
}
