package gocrest

import (
	"fmt"

	"github.com/aclements/go-z3/z3"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

type z3backend struct {
	ctx     *z3.Context
	cfg     *z3.Config
	solver  *z3.Solver
	intSort z3.Sort
}

func newZ3Backend() *z3backend {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)
	return &z3backend{
		ctx:     ctx,
		cfg:     cfg,
		solver:  z3.NewSolver(ctx),
		intSort: ctx.IntSort(),
	}
}

func (s *z3backend) Close() {
	s.solver.Reset()
}

func (s *z3backend) Solve(vars map[Var]Type, constraints []*Pred) (Solution, error) {
	s.solver.Reset()

	ids := make([]Var, 0, len(vars))
	for v := range vars {
		ids = append(ids, v)
	}
	slices.Sort(ids)

	symbols := make(map[Var]z3.Int, len(vars))
	for _, v := range ids {
		t := vars[v]
		if !t.Valid() {
			return nil, errors.Errorf("x%d has invalid type %d", v, int(t))
		}
		x := s.ctx.Const(fmt.Sprintf("x%d", v), s.intSort).(z3.Int)
		lo := s.ctx.FromBigInt(t.Min(), s.intSort).(z3.Int)
		hi := s.ctx.FromBigInt(t.Max(), s.intSort).(z3.Int)
		s.solver.Assert(x.GE(lo))
		s.solver.Assert(x.LE(hi))
		symbols[v] = x
	}

	zero := s.ctx.FromInt(0, s.intSort).(z3.Int)
	cache := make(map[*exprNode]z3.Int)
	for _, c := range constraints {
		lhs, err := s.convertExpr(c.Expr(), symbols, cache)
		if err != nil {
			return nil, err
		}
		s.solver.Assert(s.compare(c.Op(), lhs, zero))
	}

	sat, err := s.solver.Check()
	if err != nil {
		return nil, errors.Wrap(ErrUnknown, err.Error())
	}
	if !sat {
		return nil, ErrUnsat
	}

	m := s.solver.Model()
	if m == nil {
		return nil, errors.Wrap(ErrInvalidModel, "no model")
	}
	soln := make(Solution, len(vars))
	for _, v := range ids {
		val, isLiteral := m.Eval(symbols[v], true).(z3.Int).AsBigInt()
		if !isLiteral {
			return nil, errors.Wrapf(ErrInvalidModel, "x%d has no literal value", v)
		}
		soln[v], err = ToValue(vars[v], val)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidModel, err.Error())
		}
	}
	return soln, nil
}

func (s *z3backend) compare(op CompareOp, lhs, rhs z3.Int) z3.Bool {
	switch op {
	case OP_EQ:
		return lhs.Eq(rhs)
	case OP_NEQ:
		return lhs.Eq(rhs).Not()
	case OP_GT:
		return lhs.GT(rhs)
	case OP_LE:
		return lhs.LE(rhs)
	case OP_LT:
		return lhs.LT(rhs)
	case OP_GE:
		return lhs.GE(rhs)
	}
	panic("invalid comparison operator")
}

func (s *z3backend) constant(c Value) z3.Int {
	return s.ctx.FromInt(c, s.intSort).(z3.Int)
}

// convertExpr asserts linear expressions as a flat sum of weighted terms and
// translates anything else node by node.
func (s *z3backend) convertExpr(e *Expr, symbols map[Var]z3.Int, cache map[*exprNode]z3.Int) (z3.Int, error) {
	konst, terms, ok := e.Linear()
	if !ok {
		return s.convert(e.node(), symbols, cache)
	}

	sum := make([]z3.Int, 0, len(terms))
	for _, t := range terms {
		x, ok := symbols[t.Var]
		if !ok {
			return z3.Int{}, errors.Wrapf(ErrUndeclaredVar, "x%d", t.Var)
		}
		if t.Coeff == 1 {
			sum = append(sum, x)
		} else {
			sum = append(sum, x.Mul(s.constant(t.Coeff)))
		}
	}
	if len(sum) == 0 {
		return s.constant(konst), nil
	}
	res := sum[0]
	if len(sum) > 1 {
		res = res.Add(sum[1:]...)
	}
	if konst != 0 {
		res = res.Add(s.constant(konst))
	}
	return res, nil
}

func (s *z3backend) convert(n *exprNode, symbols map[Var]z3.Int, cache map[*exprNode]z3.Int) (z3.Int, error) {
	if v, ok := cache[n]; ok {
		return v, nil
	}

	var result z3.Int
	switch n.kind {
	case EXPR_CONST:
		result = s.constant(n.value)
	case EXPR_VAR:
		x, ok := symbols[n.v]
		if !ok {
			return z3.Int{}, errors.Wrapf(ErrUndeclaredVar, "x%d", n.v)
		}
		result = x
	default:
		lhs, err := s.convert(n.lhs, symbols, cache)
		if err != nil {
			return z3.Int{}, err
		}
		rhs, err := s.convert(n.rhs, symbols, cache)
		if err != nil {
			return z3.Int{}, err
		}
		switch n.kind {
		case EXPR_ADD:
			result = lhs.Add(rhs)
		case EXPR_SUB:
			result = lhs.Sub(rhs)
		case EXPR_MUL:
			result = lhs.Mul(rhs)
		case EXPR_DIV:
			result = lhs.Div(rhs)
		case EXPR_MOD:
			result = lhs.Mod(rhs)
		default:
			panic("invalid expression kind")
		}
	}

	cache[n] = result
	return result, nil
}
