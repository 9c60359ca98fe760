package gocrest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	e := NewVarExpr(3, 0)
	e.Add(NewVarExpr(1, 1)).SubConst(4)

	v, err := e.Eval(Solution{0: 2, 1: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v.Int64())
}

func TestEvalEuclidean(t *testing.T) {
	div := NewVarExpr(1, 0)
	div.DivConst(2)
	mod := NewVarExpr(1, 0)
	mod.ModConst(2)

	v, err := div.Eval(Solution{0: -7}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), v.Int64())

	v, err = mod.Eval(Solution{0: -7}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())
}

func TestEvalNoOverflow(t *testing.T) {
	e := NewVarExpr(1, 0)
	e.Mul(NewVarExpr(1, 0))
	v, err := e.Eval(Solution{0: 1 << 40}, nil)
	require.NoError(t, err)
	assert.False(t, v.IsInt64())
}

func TestEvalErrors(t *testing.T) {
	_, err := NewVarExpr(1, 3).Eval(Solution{0: 1}, nil)
	assert.Error(t, err)

	e := NewConstExpr(5)
	e.Div(NewVarExpr(1, 0))
	_, err = e.Eval(Solution{0: 0}, nil)
	assert.ErrorIs(t, err, errDivisionByZero)
}

func TestEvalUnsignedBitPattern(t *testing.T) {
	e := NewVarExpr(1, 0)
	e.SubConst(math.MaxInt64)
	soln := Solution{0: math.MinInt64}

	v, err := e.Eval(soln, map[Var]Type{0: TY_U_LONG_LONG})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())

	v, err = e.Eval(soln, map[Var]Type{0: TY_LONG_LONG})
	require.NoError(t, err)
	assert.Equal(t, -1, v.Sign())

	p := NewPred(OP_GT, e)
	holds, err := p.Eval(soln, map[Var]Type{0: TY_U_LONG})
	require.NoError(t, err)
	assert.True(t, holds)
}
