package gocrest

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MergeSolution returns the inputs for the next run: old with every variable
// of soln overwritten. Variables past the end of old are appended in id order.
func MergeSolution(old []Value, soln Solution) []Value {
	n := len(old)
	for v := range soln {
		if int(v) >= n {
			n = int(v) + 1
		}
	}
	res := make([]Value, n)
	copy(res, old)
	for v, val := range soln {
		res[v] = val
	}
	return res
}

// WriteInputs writes one decimal value per line.
func WriteInputs(w io.Writer, values []Value) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 24)
	for _, v := range values {
		buf = strconv.AppendInt(buf[:0], v, 10)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return bw.Flush()
}

func ReadInputs(r io.Reader) ([]Value, error) {
	values := make([]Value, 0)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, errors.Errorf("line %d: invalid input value %q", line, text)
		}
		values = append(values, v)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read inputs")
	}
	return values, nil
}

func WriteInputsFile(name string, values []Value) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create inputs file")
	}
	if err := WriteInputs(f, values); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	return f.Close()
}
