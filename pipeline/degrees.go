package pipeline

import (
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// DegreeRecord is one row of a degree table.
type DegreeRecord struct {
	UserID int64
	Degree int64
}

// DegreeTable maps each source user to its out-degree. Its size is bounded
// by the number of distinct users, never by the number of edges.
type DegreeTable struct {
	degrees map[int64]int64
	edges   int64
}

func NewDegreeTable() *DegreeTable {
	return &DegreeTable{degrees: make(map[int64]int64)}
}

// Add counts one more edge for user, inserting it at zero first if needed,
// and returns the new degree.
func (t *DegreeTable) Add(user int64) int64 {
	t.degrees[user]++
	t.edges++
	return t.degrees[user]
}

// Set stores a precomputed degree. It reports false, leaving the table
// untouched, when the user is already present.
func (t *DegreeTable) Set(user, degree int64) bool {
	if _, ok := t.degrees[user]; ok {
		return false
	}
	t.degrees[user] = degree
	t.edges += degree
	return true
}

func (t *DegreeTable) Degree(user int64) (int64, bool) {
	d, ok := t.degrees[user]
	return d, ok
}

// Len is the number of distinct users.
func (t *DegreeTable) Len() int { return len(t.degrees) }

// Edges is the sum of all degrees.
func (t *DegreeTable) Edges() int64 { return t.edges }

// Records returns the table ordered by ascending user id.
func (t *DegreeTable) Records() []DegreeRecord {
	records := make([]DegreeRecord, 0, len(t.degrees))
	for user, degree := range t.degrees {
		records = append(records, DegreeRecord{UserID: user, Degree: degree})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UserID < records[j].UserID
	})
	return records
}

// Write emits "user degree" lines in ascending user order followed by a
// "# users N" trailer, which readers skip as a comment.
func (t *DegreeTable) Write(w io.Writer) error {
	ew := edgelist.NewWriter(w)
	for _, rec := range t.Records() {
		if err := ew.WritePair(rec.UserID, rec.Degree); err != nil {
			return err
		}
	}
	if err := ew.WriteComment("users %d", t.Len()); err != nil {
		return err
	}
	return ew.Flush()
}

// CountDegrees reads a raw edge list and counts, for every user seen in the
// first column, the rows it appears in. Repeated edges are counted each time.
func CountDegrees(r io.Reader, opts ...Option) (*DegreeTable, Stats, error) {
	o := newOptions(opts)
	start := time.Now()

	table := NewDegreeTable()
	er := edgelist.NewReader(r, o.reader()...)
	for er.Next() {
		table.Add(er.Pair().A)
	}

	stats := Stats{
		Stage:     StageDegrees,
		LinesRead: er.Line(),
		Skipped:   er.Skipped(),
		Emitted:   int64(table.Len()),
		Users:     int64(table.Len()),
		Duration:  time.Since(start),
	}
	if err := er.Err(); err != nil {
		return nil, stats, errors.Wrap(err, "count degrees")
	}
	stats.log()
	return table, stats, nil
}

// ReadDegreeTable loads a table written by DegreeTable.Write. A user id that
// appears twice is rejected with a *DuplicateUserError.
func ReadDegreeTable(r io.Reader, opts ...Option) (*DegreeTable, error) {
	table, _, err := readDegreeTable(r, newOptions(opts))
	return table, err
}

func readDegreeTable(r io.Reader, o options) (*DegreeTable, *edgelist.Reader, error) {
	table := NewDegreeTable()
	er := edgelist.NewReader(r, o.reader()...)
	for er.Next() {
		p := er.Pair()
		if !table.Set(p.A, p.B) {
			return nil, er, &DuplicateUserError{Source: o.source, Line: er.Line(), UserID: p.A}
		}
	}
	if err := er.Err(); err != nil {
		return nil, er, errors.Wrap(err, "read degree table")
	}
	return table, er, nil
}
