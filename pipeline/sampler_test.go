package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

func degreeRows(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d %d\n", i*10, i)
	}
	return b.String()
}

func TestPositionParams_Interval(t *testing.T) {
	tests := []struct {
		name    string
		params  PositionParams
		want    int64
		wantErr bool
	}{
		{"even", PositionParams{TotalUsers: 100, TargetUsers: 10}, 10, false},
		{"floor", PositionParams{TotalUsers: 40103281, TargetUsers: 50000}, 802, false},
		{"target equals total", PositionParams{TotalUsers: 5, TargetUsers: 5}, 1, false},
		{"target above total", PositionParams{TotalUsers: 5, TargetUsers: 6}, 0, true},
		{"zero target", PositionParams{TotalUsers: 5}, 0, true},
		{"zero total", PositionParams{TargetUsers: 5}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.Interval()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSampleByPosition(t *testing.T) {
	var out bytes.Buffer
	// interval = floor(23/5) = 4, so rows 4, 8, ..., 20 are kept: floor(23/4) = 5 rows.
	stats, err := SampleByPosition(strings.NewReader(degreeRows(23)), &out, PositionParams{TotalUsers: 23, TargetUsers: 5})
	require.NoError(t, err)

	assert.Equal(t, "40 4\n80 8\n120 12\n160 16\n200 20\n", out.String())
	assert.Equal(t, int64(5), stats.Emitted)
	assert.Equal(t, int64(23), stats.LinesRead)
}

func TestSampleByPosition_EmitCount(t *testing.T) {
	for _, tc := range []struct{ rows, interval int }{{1, 1}, {10, 1}, {10, 3}, {99, 10}, {3, 7}} {
		t.Run(fmt.Sprintf("%d/%d", tc.rows, tc.interval), func(t *testing.T) {
			var out bytes.Buffer
			p := PositionParams{TotalUsers: int64(tc.interval), TargetUsers: 1}
			stats, err := SampleByPosition(strings.NewReader(degreeRows(tc.rows)), &out, p)
			require.NoError(t, err)
			assert.Equal(t, int64(tc.rows/tc.interval), stats.Emitted)
		})
	}
}

func TestSampleByPosition_InvalidParams(t *testing.T) {
	var out bytes.Buffer
	_, err := SampleByPosition(strings.NewReader(degreeRows(3)), &out, PositionParams{TotalUsers: 1, TargetUsers: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Empty(t, out.String())
}

func TestRankParams_Keep(t *testing.T) {
	p := RankParams{Stride: 10, Boundary: 25}
	var kept []int64
	for rank := int64(1); rank <= 30; rank++ {
		if p.Keep(rank) {
			kept = append(kept, rank)
		}
	}
	assert.Equal(t, []int64{10, 20, 26, 27, 28, 29, 30}, kept)

	noTail := RankParams{Stride: 10}
	assert.False(t, noTail.Keep(29))
	assert.True(t, noTail.Keep(30))
}

func TestRankParams_Validate(t *testing.T) {
	assert.True(t, errors.Is(RankParams{Stride: 0}.Validate(), ErrInvalidConfig))
	assert.True(t, errors.Is(RankParams{Stride: 1, Boundary: -1}.Validate(), ErrInvalidConfig))
	assert.NoError(t, RankParams{Stride: 1}.Validate())
}

func TestRankSample_OrderAndTies(t *testing.T) {
	records := []DegreeRecord{
		{UserID: 5, Degree: 3},
		{UserID: 1, Degree: 9},
		{UserID: 4, Degree: 3},
		{UserID: 2, Degree: 1},
		{UserID: 3, Degree: 3},
	}
	kept, err := RankSample(records, RankParams{Stride: 1})
	require.NoError(t, err)

	assert.Equal(t, []DegreeRecord{
		{UserID: 2, Degree: 1},
		{UserID: 3, Degree: 3},
		{UserID: 4, Degree: 3},
		{UserID: 5, Degree: 3},
		{UserID: 1, Degree: 9},
	}, kept)
}

func TestSampleByRank(t *testing.T) {
	// Degrees descend with user id, so ranks run backwards through the input.
	var in strings.Builder
	for u := 1; u <= 25; u++ {
		fmt.Fprintf(&in, "%d %d\n", u, 100-u)
	}
	in.WriteString("# users 25\n")

	var out bytes.Buffer
	stats, err := SampleByRank(strings.NewReader(in.String()), &out, RankParams{Stride: 10, Boundary: 23})
	require.NoError(t, err)

	// rank 10 -> user 16, rank 20 -> user 6, ranks 24 and 25 -> users 2 and 1.
	assert.Equal(t, "16 84\n6 94\n2 98\n1 99\n", out.String())
	assert.Equal(t, int64(4), stats.Emitted)
	assert.Equal(t, int64(26), stats.LinesRead)

	// Emitted degrees never decrease.
	r := edgelist.NewReader(&out)
	prev := int64(-1)
	for r.Next() {
		assert.GreaterOrEqual(t, r.Pair().B, prev)
		prev = r.Pair().B
	}
	require.NoError(t, r.Err())
}

func TestSampleByRank_DuplicateUser(t *testing.T) {
	var out bytes.Buffer
	_, err := SampleByRank(strings.NewReader("1 1\n1 2\n"), &out, RankParams{Stride: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateUser))
	assert.Empty(t, out.String())
}
