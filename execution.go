package gocrest

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Execution is the record of one concrete run: the declared symbolic inputs,
// the values they had and the path that was followed. Variables are stored in
// id order, so types[v] and inputs[v] describe x<v>.
type Execution struct {
	types  []Type
	inputs []Value
	path   *Path
}

func NewExecution(preallocate bool) *Execution {
	return &Execution{path: NewPath(preallocate)}
}

// DeclareVar adds a symbolic input with its concrete value and returns its id.
func (ex *Execution) DeclareVar(t Type, value Value) Var {
	if !t.Valid() {
		panic("invalid variable type")
	}
	ex.types = append(ex.types, t)
	ex.inputs = append(ex.inputs, value)
	return Var(len(ex.types) - 1)
}

func (ex *Execution) NumVars() int {
	return len(ex.types)
}

func (ex *Execution) checkVar(v Var) error {
	if v < 0 || int(v) >= len(ex.types) {
		return errors.Wrapf(ErrUndeclaredVar, "x%d (%d declared)", v, len(ex.types))
	}
	return nil
}

func (ex *Execution) Type(v Var) (Type, error) {
	if err := ex.checkVar(v); err != nil {
		return 0, err
	}
	return ex.types[v], nil
}

func (ex *Execution) Input(v Var) (Value, error) {
	if err := ex.checkVar(v); err != nil {
		return 0, err
	}
	return ex.inputs[v], nil
}

// Types returns the declared variables in the form consumed by the solver.
func (ex *Execution) Types() map[Var]Type {
	res := make(map[Var]Type, len(ex.types))
	for i, t := range ex.types {
		res[Var(i)] = t
	}
	return res
}

func (ex *Execution) Inputs() []Value {
	res := make([]Value, len(ex.inputs))
	copy(res, ex.inputs)
	return res
}

func (ex *Execution) Path() *Path {
	if ex.path == nil {
		ex.path = NewPath(false)
	}
	return ex.path
}

// Swap exchanges the contents of the two executions without copying.
func (ex *Execution) Swap(o *Execution) {
	ex.types, o.types = o.types, ex.types
	ex.inputs, o.inputs = o.inputs, ex.inputs
	ex.path, o.path = o.path, ex.path
}

func (ex *Execution) Equal(o *Execution) bool {
	if len(ex.types) != len(o.types) {
		return false
	}
	for i := range ex.types {
		if ex.types[i] != o.types[i] || ex.inputs[i] != o.inputs[i] {
			return false
		}
	}
	return ex.Path().Equal(o.Path())
}

func (ex *Execution) Serialize(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	writeCount(bw, len(ex.types))
	buf := make([]byte, 0, 32)
	for i, t := range ex.types {
		buf = strconv.AppendInt(buf[:0], int64(t), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, ex.inputs[i], 10)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	ex.Path().serialize(bw)
	return bw.Flush()
}

// Parse replaces the contents of ex. On error ex is left unchanged. Pass a
// *bufio.Reader to read consecutive records from one stream.
func (ex *Execution) Parse(r io.Reader) error {
	lr := newLineReader(r)
	n, err := lr.nextCount("variable")
	if err != nil {
		return err
	}

	types := make([]Type, n)
	inputs := make([]Value, n)
	for i := 0; i < n; i++ {
		line, err := lr.next()
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return lr.errorf("expected type and value, got %q", line)
		}
		if types[i], err = parseType(fields[0]); err != nil {
			return lr.wrap(err)
		}
		if inputs[i], err = strconv.ParseInt(fields[1], 10, 64); err != nil {
			return lr.errorf("invalid value %q for x%d", fields[1], i)
		}
	}

	path := NewPath(false)
	if err := path.parse(lr); err != nil {
		return err
	}
	ex.types, ex.inputs, ex.path = types, inputs, path
	return nil
}

func (ex *Execution) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create execution file")
	}
	if err := ex.Serialize(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	return f.Close()
}

func ReadExecutionFile(name string) (*Execution, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open execution file")
	}
	defer f.Close()

	ex := NewExecution(false)
	if err := ex.Parse(f); err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	return ex, nil
}
