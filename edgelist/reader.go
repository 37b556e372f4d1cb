// Package edgelist reads and writes the plain-text, two-column integer files
// that every pipeline stage exchanges: raw follow edges, degree tables,
// selection sources and compacted subgraphs.
package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrMalformed is the cause of every *ParseError.
var ErrMalformed = errors.New("malformed line")

// maxWarnings caps the per-reader warn lines logged in Skip mode.
const maxWarnings = 10

// DefaultMaxLineLength is the longest line a Reader parses. Longer lines
// are malformed and handled by the Policy like any other bad line.
const DefaultMaxLineLength = 1 << 20

// textPrefix is how much of an overlong line a ParseError keeps.
const textPrefix = 40

// Policy decides what a Reader does with a line that is not a valid record.
type Policy int

const (
	// Skip drops the line, counts it and logs a warning.
	Skip Policy = iota
	// Strict stops the reader with a *ParseError.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Strict:
		return "strict"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePolicy maps "skip" and "strict" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return Skip, nil
	case "strict":
		return Strict, nil
	default:
		return Skip, fmt.Errorf("unknown parse policy %q", s)
	}
}

// ParseError describes a rejected line.
type ParseError struct {
	Path   string
	Line   int64
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	return fmt.Sprintf("%s:%d: %s: %q", where, e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// Pair is one parsed record. B is zero for single-column rows.
type Pair struct {
	A, B int64
}

// Reader streams Pairs from a line-oriented source. Blank lines and lines
// starting with '#' are ignored and never count as malformed.
type Reader struct {
	br        *bufio.Reader
	buf       []byte
	path      string
	policy    Policy
	minFields int
	maxLine   int

	line     int64
	skipped  int64
	warnings int
	pair     Pair
	err      error
}

type Option func(*Reader)

func WithPolicy(p Policy) Option {
	return func(r *Reader) { r.policy = p }
}

// WithPath names the source in errors and log lines.
func WithPath(path string) Option {
	return func(r *Reader) { r.path = path }
}

// WithSingleColumn also accepts rows holding only the first column.
func WithSingleColumn() Option {
	return func(r *Reader) { r.minFields = 1 }
}

// WithMaxLineLength overrides DefaultMaxLineLength.
func WithMaxLineLength(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLine = n
		}
	}
}

func NewReader(r io.Reader, opts ...Option) *Reader {
	rd := &Reader{
		br:        bufio.NewReaderSize(r, 64*1024),
		policy:    Skip,
		minFields: 2,
		maxLine:   DefaultMaxLineLength,
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Next advances to the next valid record. It returns false at end of input
// or on the first error; check Err afterwards.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for {
		raw, tooLong, err := r.readLine()
		if err == io.EOF {
			return false
		}
		if err != nil {
			r.err = errors.Wrapf(err, "read %s", r.describe())
			return false
		}
		r.line++

		var perr *ParseError
		if tooLong {
			perr = &ParseError{Path: r.path, Line: r.line, Text: string(raw) + "...",
				Reason: fmt.Sprintf("line too long (over %d bytes)", r.maxLine)}
		} else {
			text := strings.TrimSpace(string(raw))
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			pair, reason := r.parse(text)
			if reason == "" {
				r.pair = pair
				return true
			}
			perr = &ParseError{Path: r.path, Line: r.line, Text: text, Reason: reason}
		}

		if r.policy == Strict {
			r.err = perr
			return false
		}
		r.skipped++
		r.warn(perr)
	}
}

// readLine returns the next line without its terminator. A line longer
// than maxLine is consumed to its end and reported as tooLong, with only a
// short prefix kept. io.EOF is returned once no bytes remain.
func (r *Reader) readLine() ([]byte, bool, error) {
	r.buf = r.buf[:0]
	tooLong := false
	for {
		chunk, err := r.br.ReadSlice('\n')
		n := len(chunk)
		if n > 0 && chunk[n-1] == '\n' {
			chunk = chunk[:n-1]
		}
		if !tooLong {
			if len(r.buf)+len(chunk) > r.maxLine {
				tooLong = true
				r.buf = append(r.buf, chunk...)
				if len(r.buf) > textPrefix {
					r.buf = r.buf[:textPrefix]
				}
			} else {
				r.buf = append(r.buf, chunk...)
			}
		}

		switch err {
		case nil:
			return r.buf, tooLong, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if n > 0 || len(r.buf) > 0 || tooLong {
				return r.buf, tooLong, nil
			}
			return nil, false, io.EOF
		default:
			return nil, false, err
		}
	}
}

func (r *Reader) parse(text string) (Pair, string) {
	fields := strings.Fields(text)
	if n := len(fields); n < r.minFields || n > 2 {
		if r.minFields == 1 {
			return Pair{}, fmt.Sprintf("want 1 or 2 columns, got %d", n)
		}
		return Pair{}, fmt.Sprintf("want 2 columns, got %d", n)
	}

	var p Pair
	var err error
	if p.A, err = parseID(fields[0]); err != nil {
		return Pair{}, err.Error()
	}
	if len(fields) == 2 {
		if p.B, err = parseID(fields[1]); err != nil {
			return Pair{}, err.Error()
		}
	}
	return p, ""
}

func parseID(tok string) (int64, error) {
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", tok)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return v, nil
}

func (r *Reader) warn(perr *ParseError) {
	r.warnings++
	switch {
	case r.warnings <= maxWarnings:
		log.Warn().Str("path", r.describe()).Int64("line", perr.Line).Str("reason", perr.Reason).Msg("skipping malformed line")
	case r.warnings == maxWarnings+1:
		log.Warn().Str("path", r.describe()).Msg("further malformed lines suppressed")
	}
}

func (r *Reader) describe() string {
	if r.path == "" {
		return "input"
	}
	return r.path
}

func (r *Reader) Pair() Pair { return r.pair }

// Line is the 1-based number of the line last consumed, which after a
// full read is the total line count.
func (r *Reader) Line() int64 { return r.line }

// Skipped counts malformed lines dropped under the Skip policy.
func (r *Reader) Skipped() int64 { return r.skipped }

func (r *Reader) Err() error { return r.err }
