package gocrest

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
)

type SolverStats struct {
	Queries              uint
	Sat                  uint
	Unsat                uint
	Unknown              uint
	Errors               uint
	TotalConstraints     uint
	DependentConstraints uint
	DependentVars        uint
}

// Solver computes new inputs for a run by handing the backend only the
// constraints that depend, directly or through shared variables, on the
// branch being flipped.
type Solver struct {
	backend Backend
	Stats   SolverStats
}

func NewSolver(backend Backend) *Solver {
	return &Solver{backend: backend}
}

func NewZ3Solver() *Solver {
	return NewSolver(newZ3Backend())
}

func (s *Solver) Close() {
	s.backend.Close()
}

// DependentVars returns the variables connected, through co-occurrence in
// some constraint, to the variables of the last constraint.
func DependentVars(vars map[Var]Type, constraints []*Pred) (map[Var]Type, error) {
	if len(constraints) == 0 {
		return nil, errors.New("no constraints")
	}

	size := 0
	for v := range vars {
		if v < 0 {
			return nil, errors.Wrapf(ErrUndeclaredVar, "negative id x%d", v)
		}
		if int(v) >= size {
			size = int(v) + 1
		}
	}

	// depends[v] is the set of variables that share a constraint with v.
	depends := make([]map[Var]struct{}, size)
	occurring := make(map[Var]struct{})
	for i, c := range constraints {
		for k := range occurring {
			delete(occurring, k)
		}
		c.AppendVars(occurring)
		for v := range occurring {
			if _, ok := vars[v]; !ok {
				return nil, errors.Wrapf(ErrUndeclaredVar, "x%d in constraint %d", v, i)
			}
			if depends[v] == nil {
				depends[v] = make(map[Var]struct{})
			}
			for o := range occurring {
				if o != v {
					depends[v][o] = struct{}{}
				}
			}
		}
	}

	dependent := make(map[Var]Type)
	queue := make([]Var, 0)
	for _, v := range constraints[len(constraints)-1].Expr().Vars() {
		dependent[v] = vars[v]
		queue = append(queue, v)
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for o := range depends[v] {
			if _, ok := dependent[o]; !ok {
				dependent[o] = vars[o]
				queue = append(queue, o)
			}
		}
	}
	return dependent, nil
}

func dependentConstraints(dependent map[Var]Type, constraints []*Pred) []*Pred {
	res := make([]*Pred, 0)
	seen := make(map[uint64][]*Pred)
	for _, c := range constraints {
		if !c.DependsOn(dependent) {
			continue
		}
		h := c.Hash()
		duplicate := false
		for _, o := range seen[h] {
			if o.Op() == c.Op() && o.Expr().String() == c.Expr().String() {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		seen[h] = append(seen[h], c)
		res = append(res, c)
	}
	return res
}

// IncrementalSolve finds inputs that satisfy every constraint, where the last
// constraint is the only one added since old was computed. Only the part of
// the problem connected to the last constraint is solved; the other
// variables keep their value from old, which is indexed by variable id.
func (s *Solver) IncrementalSolve(old []Value, vars map[Var]Type, constraints []*Pred) (Solution, error) {
	dependent, err := DependentVars(vars, constraints)
	if err != nil {
		return nil, err
	}
	depConstraints := dependentConstraints(dependent, constraints)
	if last := constraints[len(constraints)-1]; last.Expr().IsConst() {
		// a variable free branch condition still decides feasibility
		depConstraints = append(depConstraints, last)
	}

	soln, err := s.solve(dependent, depConstraints, len(constraints))
	if err != nil {
		return nil, err
	}

	occurring := make(map[Var]struct{})
	for _, c := range constraints {
		c.AppendVars(occurring)
	}
	for v := range occurring {
		if _, ok := soln[v]; ok {
			continue
		}
		if int(v) >= len(old) {
			return nil, errors.Errorf("no previous value for x%d (%d known)", v, len(old))
		}
		soln[v] = old[v]
	}
	return soln, nil
}

// Solve hands the whole problem to the backend.
func (s *Solver) Solve(vars map[Var]Type, constraints []*Pred) (Solution, error) {
	return s.solve(vars, constraints, len(constraints))
}

// SolveAtBranch computes inputs that follow the path of ex up to its i-th
// constraint and then take the other direction.
func (s *Solver) SolveAtBranch(ex *Execution, i int) (Solution, error) {
	cs := ex.Path().Constraints()
	if i < 0 || i >= len(cs) {
		return nil, errors.Errorf("constraint %d out of range (%d constraints)", i, len(cs))
	}
	constraints := make([]*Pred, i+1)
	copy(constraints, cs[:i])
	flipped := cs[i].Copy()
	flipped.Negate()
	constraints[i] = flipped
	return s.IncrementalSolve(ex.Inputs(), ex.Types(), constraints)
}

func (s *Solver) solve(vars map[Var]Type, constraints []*Pred, total int) (Solution, error) {
	s.Stats.Queries += 1
	s.Stats.TotalConstraints += uint(total)
	s.Stats.DependentConstraints += uint(len(constraints))
	s.Stats.DependentVars += uint(len(vars))

	start := time.Now()
	soln, err := s.backend.Solve(vars, constraints)
	if err == nil {
		err = validateModel(soln, vars, constraints)
	}

	result := resultOf(err)
	switch result {
	case RESULT_SAT:
		s.Stats.Sat += 1
	case RESULT_UNSAT:
		s.Stats.Unsat += 1
	case RESULT_UNKNOWN:
		s.Stats.Unknown += 1
	default:
		s.Stats.Errors += 1
	}

	ev := logger.Debug()
	if result == RESULT_ERROR {
		ev = logger.Warn().Err(err)
	}
	ev.Int("vars", len(vars)).
		Int("constraints", len(constraints)).
		Int("total", total).
		Int("result", result).
		Dur("elapsed", time.Since(start)).
		Msg("solver query")

	if err != nil {
		return nil, err
	}
	return soln, nil
}

// validateModel checks that soln assigns every variable a value in range and
// satisfies every constraint. Constraints that divide by zero under soln are
// left to the backend, whose integer theory leaves that case open.
func validateModel(soln Solution, vars map[Var]Type, constraints []*Pred) error {
	interpr := make(map[Var]*big.Int, len(vars))
	for v, t := range vars {
		val, ok := soln[v]
		if !ok {
			return errors.Wrapf(ErrInvalidModel, "no value for x%d", v)
		}
		if !t.ContainsValue(val) {
			return errors.Wrapf(ErrInvalidModel, "x%d = %d out of range for %s", v, val, t)
		}
		interpr[v] = FromValue(t, val)
	}
	for _, c := range constraints {
		holds, err := c.eval(bigAssignment(interpr))
		if err == errDivisionByZero {
			continue
		}
		if err != nil {
			return errors.Wrap(ErrInvalidModel, err.Error())
		}
		if !holds {
			return errors.Wrapf(ErrInvalidModel, "%s does not hold", c)
		}
	}
	return nil
}
