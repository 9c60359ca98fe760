package gocrest

import (
	"math/big"

	"github.com/pkg/errors"
)

var errDivisionByZero = errors.New("division by zero")

type assignment func(v Var) (*big.Int, bool)

func zeroAssignment(Var) (*big.Int, bool) {
	return new(big.Int), true
}

// solutionAssignment reads soln through the declared types, so that values of
// the 64 bit unsigned types denote their bit pattern. Variables missing from
// vars are read as signed.
func solutionAssignment(soln Solution, vars map[Var]Type) assignment {
	return func(v Var) (*big.Int, bool) {
		val, ok := soln[v]
		if !ok {
			return nil, false
		}
		if t, ok := vars[v]; ok {
			return FromValue(t, val), true
		}
		return big.NewInt(val), true
	}
}

func bigAssignment(m map[Var]*big.Int) assignment {
	return func(v Var) (*big.Int, bool) {
		val, ok := m[v]
		return val, ok
	}
}

// evalNode uses unbounded integers and the Euclidean div/mod of SMT-LIB, so
// its results agree with the backend's integer theory.
func evalNode(n *exprNode, interpr assignment) (*big.Int, error) {
	switch n.kind {
	case EXPR_CONST:
		return big.NewInt(n.value), nil
	case EXPR_VAR:
		val, ok := interpr(n.v)
		if !ok {
			return nil, errors.Errorf("no value for x%d", n.v)
		}
		return new(big.Int).Set(val), nil
	}

	lhs, err := evalNode(n.lhs, interpr)
	if err != nil {
		return nil, err
	}
	rhs, err := evalNode(n.rhs, interpr)
	if err != nil {
		return nil, err
	}

	switch n.kind {
	case EXPR_ADD:
		return lhs.Add(lhs, rhs), nil
	case EXPR_SUB:
		return lhs.Sub(lhs, rhs), nil
	case EXPR_MUL:
		return lhs.Mul(lhs, rhs), nil
	case EXPR_DIV:
		if rhs.Sign() == 0 {
			return nil, errDivisionByZero
		}
		return lhs.Div(lhs, rhs), nil
	case EXPR_MOD:
		if rhs.Sign() == 0 {
			return nil, errDivisionByZero
		}
		return lhs.Mod(lhs, rhs), nil
	}
	panic("invalid expression kind")
}

// Eval computes the value of the expression under soln, which must assign
// every occurring variable. vars holds the declared types.
func (e *Expr) Eval(soln Solution, vars map[Var]Type) (*big.Int, error) {
	return evalNode(e.node(), solutionAssignment(soln, vars))
}
