package gocrest

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minus(v Var, c Value) *Expr {
	e := NewVarExpr(1, v)
	e.SubConst(c)
	return e
}

func TestPredNegate(t *testing.T) {
	p := NewPred(OP_GT, minus(0, 0))
	p.Negate()
	assert.Equal(t, OP_LE, p.Op())
	assert.Equal(t, "(- x0 0)", p.Expr().String())

	p = NewPred(OP_EQ, minus(0, 0))
	p.Negate()
	assert.Equal(t, OP_NEQ, p.Op())
	p.Negate()
	assert.Equal(t, OP_EQ, p.Op())
}

func TestPredString(t *testing.T) {
	assert.Equal(t, "(> (- x0 0) 0)", NewPred(OP_GT, minus(0, 0)).String())
	assert.Equal(t, "(<= x1 0)", NewPred(OP_LE, NewVarExpr(1, 1)).String())
	assert.Equal(t, "(not (= (- x0 49) 0))", NewPred(OP_NEQ, minus(0, 49)).String())
}

func TestPredEqual(t *testing.T) {
	a := NewPred(OP_LT, minus(2, 3))
	b := NewPred(OP_LT, minus(2, 3))
	assert.True(t, a.Equal(b))
	b.Negate()
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(NewPred(OP_LT, minus(1, 3))))
}

func TestPredCopy(t *testing.T) {
	a := NewPred(OP_GE, minus(0, 1))
	b := a.Copy()
	b.Negate()
	b.Expr().AddConst(1)
	assert.Equal(t, OP_GE, a.Op())
	assert.Equal(t, "(- x0 1)", a.Expr().String())
}

func TestPredEval(t *testing.T) {
	p := NewPred(OP_GT, minus(0, 10))
	holds, err := p.Eval(Solution{0: 11}, nil)
	require.NoError(t, err)
	assert.True(t, holds)

	holds, err = p.Eval(Solution{0: 10}, nil)
	require.NoError(t, err)
	assert.False(t, holds)

	holds, err = NewPred(OP_NEQ, minus(0, 10)).Eval(Solution{0: 10}, nil)
	require.NoError(t, err)
	assert.False(t, holds)

	_, err = p.Eval(Solution{}, nil)
	assert.Error(t, err)
}

func TestPredSerialize(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, NewPred(OP_GT, minus(0, 0)).Serialize(&buf))
	assert.Equal(t, "2\n(- x0 0)\n", buf.String())

	p := &Pred{}
	require.NoError(t, p.Parse(&buf))
	assert.True(t, p.Equal(NewPred(OP_GT, minus(0, 0))))
}

func TestPredRoundTrip(t *testing.T) {
	for op := OP_EQ; op <= OP_GE; op++ {
		e := NewVarExpr(3, 1)
		e.Mul(NewVarExpr(1, 2)).AddConst(-8)
		p := NewPred(op, e)

		buf := bytes.Buffer{}
		require.NoError(t, p.Serialize(&buf))
		parsed := &Pred{}
		require.NoError(t, parsed.Parse(&buf))
		assert.True(t, p.Equal(parsed), op.String())
		assert.Equal(t, p.Hash(), parsed.Hash())
	}
}

func TestPredParseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"7\nx0\n",
		"eq\nx0\n",
		"1\n",
		"1\n(+ x0\n",
	} {
		err := (&Pred{}).Parse(strings.NewReader(s))
		assert.Error(t, err, "%q should not parse", s)
	}
}

func TestParseConsecutivePreds(t *testing.T) {
	first := NewPred(OP_LT, minus(0, 3))
	second := NewPred(OP_NEQ, NewVarExpr(2, 1))
	buf := bytes.Buffer{}
	require.NoError(t, first.Serialize(&buf))
	require.NoError(t, second.Serialize(&buf))

	r := bufio.NewReader(&buf)
	a, b := &Pred{}, &Pred{}
	require.NoError(t, a.Parse(r))
	require.NoError(t, b.Parse(r))
	assert.True(t, first.Equal(a))
	assert.True(t, second.Equal(b))
	assert.Equal(t, OP_NEQ, b.Op())
}

func TestZeroPred(t *testing.T) {
	p := &Pred{}
	assert.Equal(t, "(= 0 0)", p.String())
	assert.True(t, p.Equal(NewPred(OP_EQ, NewConstExpr(0))))
	vars := map[Var]struct{}{}
	p.AppendVars(vars)
	assert.Empty(t, vars)

	holds, err := p.Eval(Solution{}, nil)
	require.NoError(t, err)
	assert.True(t, holds)
}
