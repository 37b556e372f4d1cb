package edgelist

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []Pair {
	t.Helper()
	var pairs []Pair
	for r.Next() {
		pairs = append(pairs, r.Pair())
	}
	return pairs
}

func TestReader_SkipPolicy(t *testing.T) {
	input := strings.Join([]string{
		"1 2",
		"",
		"# users 3",
		"1\t3",
		"  2   3  ",
		"4",
		"5 6 7",
		"x 1",
		"-1 2",
		"4 1",
	}, "\n")

	r := NewReader(strings.NewReader(input))
	pairs := readAll(t, r)
	require.NoError(t, r.Err())

	assert.Equal(t, []Pair{{1, 2}, {1, 3}, {2, 3}, {4, 1}}, pairs)
	assert.Equal(t, int64(4), r.Skipped())
	assert.Equal(t, int64(10), r.Line())
}

func TestReader_StrictPolicy(t *testing.T) {
	r := NewReader(strings.NewReader("1 2\n3 four\n5 6\n"), WithPolicy(Strict), WithPath("edges.txt"))
	pairs := readAll(t, r)

	assert.Equal(t, []Pair{{1, 2}}, pairs)
	require.Error(t, r.Err())
	assert.True(t, errors.Is(r.Err(), ErrMalformed))

	var perr *ParseError
	require.True(t, errors.As(r.Err(), &perr))
	assert.Equal(t, int64(2), perr.Line)
	assert.Equal(t, "edges.txt", perr.Path)
	assert.Contains(t, perr.Error(), "edges.txt:2")

	// A failed reader stays failed.
	assert.False(t, r.Next())
}

func TestReader_OverlongLine(t *testing.T) {
	long := strings.Repeat("x", 2*DefaultMaxLineLength)
	input := "1 2\n" + long + "\n2 3\n"

	r := NewReader(strings.NewReader(input), WithPolicy(Skip))
	pairs := readAll(t, r)
	require.NoError(t, r.Err())
	assert.Equal(t, []Pair{{1, 2}, {2, 3}}, pairs)
	assert.Equal(t, int64(1), r.Skipped())
	assert.Equal(t, int64(3), r.Line())

	r = NewReader(strings.NewReader(input), WithPolicy(Strict), WithPath("edges.txt"))
	pairs = readAll(t, r)
	assert.Equal(t, []Pair{{1, 2}}, pairs)
	require.True(t, errors.Is(r.Err(), ErrMalformed))
	var perr *ParseError
	require.True(t, errors.As(r.Err(), &perr))
	assert.Equal(t, int64(2), perr.Line)
	assert.Contains(t, perr.Reason, "line too long")
	assert.Less(t, len(perr.Text), 64)
}

func TestReader_MaxLineLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pairs []Pair
		skip  int64
	}{
		{"at limit", "10 20\n", []Pair{{10, 20}}, 0},
		{"over limit", "100 200\n3 4\n", []Pair{{3, 4}}, 1},
		{"over limit without newline", "1 2\n100 200", []Pair{{1, 2}}, 1},
		{"crlf", "1 2\r\n3 4\r\n", []Pair{{1, 2}, {3, 4}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input), WithMaxLineLength(5))
			pairs := readAll(t, r)
			require.NoError(t, r.Err())
			assert.Equal(t, tt.pairs, pairs)
			assert.Equal(t, tt.skip, r.Skipped())
		})
	}
}

func TestReader_SingleColumn(t *testing.T) {
	r := NewReader(strings.NewReader("7\n8 100\n9 1 2\n"), WithSingleColumn(), WithPolicy(Strict))
	pairs := readAll(t, r)

	assert.Equal(t, []Pair{{7, 0}, {8, 100}}, pairs)
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "want 1 or 2 columns, got 3")
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", Skip, false},
		{"skip", Skip, false},
		{"STRICT", Strict, false},
		{" strict ", Strict, false},
		{"lenient", Skip, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "strict", Strict.String())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteCount(2))
	require.NoError(t, w.WritePair(0, 1))
	require.NoError(t, w.WritePair(12345678901, 0))
	require.NoError(t, w.WriteComment("users %d", 3))
	require.NoError(t, w.Flush())

	assert.Equal(t, "2\n0 1\n12345678901 0\n# users 3\n", buf.String())
	assert.Equal(t, int64(2), w.Records())

	// Output written by Writer reads back through Reader.
	r := NewReader(&buf, WithSingleColumn())
	pairs := readAll(t, r)
	require.NoError(t, r.Err())
	assert.Equal(t, []Pair{{2, 0}, {0, 1}, {12345678901, 0}}, pairs)
}
