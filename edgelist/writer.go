package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Writer emits records in the same two-column format Reader accepts.
// Call Flush when done.
type Writer struct {
	w       *bufio.Writer
	buf     []byte
	records int64
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:   bufio.NewWriterSize(w, 256*1024),
		buf: make([]byte, 0, 48),
	}
}

// WritePair writes "a b\n".
func (w *Writer) WritePair(a, b int64) error {
	w.buf = strconv.AppendInt(w.buf[:0], a, 10)
	w.buf = append(w.buf, ' ')
	w.buf = strconv.AppendInt(w.buf, b, 10)
	w.buf = append(w.buf, '\n')
	if _, err := w.w.Write(w.buf); err != nil {
		return errors.Wrap(err, "write pair")
	}
	w.records++
	return nil
}

// WriteCount writes a line holding a single integer, used for the
// compacted graph's user-count header.
func (w *Writer) WriteCount(n int64) error {
	w.buf = strconv.AppendInt(w.buf[:0], n, 10)
	w.buf = append(w.buf, '\n')
	if _, err := w.w.Write(w.buf); err != nil {
		return errors.Wrap(err, "write count")
	}
	return nil
}

// WriteComment writes a '#' line; readers skip it.
func (w *Writer) WriteComment(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(w.w, "# "+format+"\n", args...); err != nil {
		return errors.Wrap(err, "write comment")
	}
	return nil
}

// Records is the number of pairs written so far.
func (w *Writer) Records() int64 { return w.records }

func (w *Writer) Flush() error {
	return errors.Wrap(w.w.Flush(), "flush")
}
