package gocrest

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExecution() *Execution {
	ex := NewExecution(false)
	x0 := ex.DeclareVar(TY_INT, 49)
	x1 := ex.DeclareVar(TY_U_CHAR, 7)
	ex.Path().PushConstraint(10, NewPred(OP_EQ, minus(x0, 49)))
	ex.Path().Push(11)
	ex.Path().PushConstraint(12, NewPred(OP_GT, NewVarExpr(1, x1)))
	return ex
}

func TestExecutionSerialize(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, sampleExecution().Serialize(&buf))
	assert.Equal(t, "2\n5 49\n0 7\n3\n10 11 12\n2\n0 2\n0\n(- x0 49)\n2\nx1\n", buf.String())
}

func TestExecutionRoundTrip(t *testing.T) {
	ex := sampleExecution()
	buf := bytes.Buffer{}
	require.NoError(t, ex.Serialize(&buf))

	parsed := NewExecution(false)
	require.NoError(t, parsed.Parse(&buf))
	assert.True(t, ex.Equal(parsed))
	assert.Equal(t, []Value{49, 7}, parsed.Inputs())
	assert.Equal(t, map[Var]Type{0: TY_INT, 1: TY_U_CHAR}, parsed.Types())
}

func TestExecutionFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "szd_execution")
	ex := sampleExecution()
	require.NoError(t, ex.WriteFile(name))

	parsed, err := ReadExecutionFile(name)
	require.NoError(t, err)
	assert.True(t, ex.Equal(parsed))

	_, err = ReadExecutionFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestExecutionAccessors(t *testing.T) {
	ex := sampleExecution()
	assert.Equal(t, 2, ex.NumVars())

	ty, err := ex.Type(1)
	require.NoError(t, err)
	assert.Equal(t, TY_U_CHAR, ty)

	v, err := ex.Input(0)
	require.NoError(t, err)
	assert.Equal(t, Value(49), v)

	_, err = ex.Input(2)
	assert.ErrorIs(t, err, ErrUndeclaredVar)
	_, err = ex.Type(-1)
	assert.ErrorIs(t, err, ErrUndeclaredVar)

	inputs := ex.Inputs()
	inputs[0] = 0
	v, _ = ex.Input(0)
	assert.Equal(t, Value(49), v)
}

func TestExecutionSwap(t *testing.T) {
	a := sampleExecution()
	b := NewExecution(false)
	a.Swap(b)
	assert.Equal(t, 0, a.NumVars())
	assert.Empty(t, a.Path().Branches())
	assert.Equal(t, 2, b.NumVars())
	assert.Equal(t, 2, b.Path().NumConstraints())
}

func TestExecutionParseErrors(t *testing.T) {
	for name, s := range map[string]string{
		"empty":         "",
		"bad count":     "two\n",
		"missing var":   "2\n5 1\n",
		"bad type":      "1\n10 1\n0\n\n0\n\n",
		"bad value":     "1\n5 z\n0\n\n0\n\n",
		"missing value": "1\n5\n0\n\n0\n\n",
		"missing path":  "1\n5 1\n",
	} {
		err := NewExecution(false).Parse(strings.NewReader(s))
		assert.Error(t, err, name)
	}

	err := NewExecution(false).Parse(strings.NewReader("1\n5 1\n3\n"))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestExecutionParseKeepsOldOnError(t *testing.T) {
	ex := sampleExecution()
	assert.Error(t, ex.Parse(strings.NewReader("1\n5 1\n1\n4\n")))
	assert.Equal(t, 2, ex.NumVars())
	assert.Equal(t, 3, len(ex.Path().Branches()))
}
