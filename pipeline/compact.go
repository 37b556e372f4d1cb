package pipeline

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// UserSelection maps selected user ids to dense ids in [0, Len()), handed out
// in the order users are added.
type UserSelection struct {
	index map[int64]int64
	users []int64
}

func NewUserSelection() *UserSelection {
	return &UserSelection{index: make(map[int64]int64)}
}

// Add assigns user the next dense id. It reports false, and assigns
// nothing, if the user was already selected.
func (s *UserSelection) Add(user int64) (int64, bool) {
	if _, ok := s.index[user]; ok {
		return 0, false
	}
	id := int64(len(s.users))
	s.index[user] = id
	s.users = append(s.users, user)
	return id, true
}

// Index returns the dense id of user.
func (s *UserSelection) Index(user int64) (int64, bool) {
	id, ok := s.index[user]
	return id, ok
}

// User is the inverse of Index. It panics if id is out of range.
func (s *UserSelection) User(id int64) int64 { return s.users[id] }

func (s *UserSelection) Len() int { return len(s.users) }

// Users returns the selected user ids ordered by dense id.
func (s *UserSelection) Users() []int64 {
	return append([]int64(nil), s.users...)
}

// BuildSelection reads a selection source top to bottom. Only the first
// column is used, so both sampler outputs and bare user lists work. A
// repeated user is fatal: the mapping would otherwise be silently rewritten.
func BuildSelection(r io.Reader, opts ...Option) (*UserSelection, error) {
	o := newOptions(opts)
	sel := NewUserSelection()
	er := edgelist.NewReader(r, o.reader(edgelist.WithSingleColumn())...)
	for er.Next() {
		user := er.Pair().A
		if _, ok := sel.Add(user); !ok {
			return nil, &DuplicateUserError{Source: o.source, Line: er.Line(), UserID: user}
		}
	}
	if err := er.Err(); err != nil {
		return nil, errors.Wrap(err, "build selection")
	}
	return sel, nil
}

// Compact writes the subgraph of edges induced by sel. The first line is
// the number of selected users; every following line is a remapped edge,
// in the order the edges appear in the input. Edges with an endpoint
// outside the selection are dropped and counted.
func Compact(sel *UserSelection, edges io.Reader, w io.Writer, opts ...Option) (Stats, error) {
	o := newOptions(opts)
	start := time.Now()
	stats := Stats{Stage: StageCompact, Users: int64(sel.Len())}

	ew := edgelist.NewWriter(w)
	if err := ew.WriteCount(int64(sel.Len())); err != nil {
		return stats, err
	}

	er := edgelist.NewReader(edges, o.reader()...)
	for er.Next() {
		edge := er.Pair()
		src, ok := sel.Index(edge.A)
		if !ok {
			stats.Dropped++
			continue
		}
		dst, ok := sel.Index(edge.B)
		if !ok {
			stats.Dropped++
			continue
		}
		if err := ew.WritePair(src, dst); err != nil {
			return stats, err
		}
	}

	stats.LinesRead = er.Line()
	stats.Skipped = er.Skipped()
	stats.Emitted = ew.Records()
	if err := er.Err(); err != nil {
		return stats, errors.Wrap(err, "compact")
	}
	if err := ew.Flush(); err != nil {
		return stats, err
	}
	stats.Duration = time.Since(start)
	stats.log()
	return stats, nil
}
