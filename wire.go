package gocrest

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// lineReader reads the line oriented execution format. The last line may
// omit its terminating newline.
type lineReader struct {
	r    *bufio.Reader
	line int
}

// newLineReader reuses r when it is already buffered, so that consecutive
// records can be read from the same stream.
func newLineReader(r io.Reader) *lineReader {
	switch br := r.(type) {
	case *lineReader:
		return br
	case *bufio.Reader:
		return &lineReader{r: br}
	}
	return &lineReader{r: bufio.NewReaderSize(r, 1<<16)}
}

func (lr *lineReader) Read(p []byte) (int, error) {
	return lr.r.Read(p)
}

func (lr *lineReader) next() (string, error) {
	s, err := lr.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", errors.Wrapf(err, "line %d", lr.line+1)
		}
		if s == "" {
			return "", errors.Wrapf(io.ErrUnexpectedEOF, "line %d", lr.line+1)
		}
	}
	lr.line++
	return strings.TrimRight(s, "\r\n"), nil
}

func (lr *lineReader) wrap(err error) error {
	return errors.Wrapf(err, "line %d", lr.line)
}

func (lr *lineReader) errorf(format string, args ...interface{}) error {
	return lr.wrap(errors.Errorf(format, args...))
}

// nextCount reads a line holding a single non-negative count.
func (lr *lineReader) nextCount(what string) (int, error) {
	line, err := lr.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 {
		return 0, lr.errorf("invalid %s count %q", what, line)
	}
	return n, nil
}

// nextInts reads a line of exactly n space separated integers of the given
// bit size.
func (lr *lineReader) nextInts(n int, bits int, what string) ([]int64, error) {
	line, err := lr.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, lr.errorf("expected %d %s, found %d", n, what, len(fields))
	}
	res := make([]int64, n)
	for i, f := range fields {
		res[i], err = strconv.ParseInt(f, 10, bits)
		if err != nil {
			return nil, lr.errorf("invalid %s %q", what, f)
		}
	}
	return res, nil
}

func writeInts[T ~int | ~int32 | ~int64](w *bufio.Writer, values []T) {
	buf := make([]byte, 0, 24)
	for i, v := range values {
		if i > 0 {
			w.WriteByte(' ')
		}
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		w.Write(buf)
	}
	w.WriteByte('\n')
}

func writeCount(w *bufio.Writer, n int) {
	w.WriteString(strconv.Itoa(n))
	w.WriteByte('\n')
}
