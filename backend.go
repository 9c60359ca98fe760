package gocrest

import (
	"github.com/pkg/errors"
)

const (
	RESULT_ERROR   = 0
	RESULT_SAT     = 1
	RESULT_UNSAT   = 2
	RESULT_UNKNOWN = 3
)

var (
	ErrUnsat         = errors.New("constraints are unsatisfiable")
	ErrUnknown       = errors.New("backend could not decide satisfiability")
	ErrInvalidModel  = errors.New("backend returned an invalid model")
	ErrUndeclaredVar = errors.New("undeclared variable")
)

// Backend is a decision procedure for bounded integer constraints. Solve
// declares one integer per entry of vars, bounded by its type, asserts every
// constraint and returns a value for each declared variable. It returns
// ErrUnsat or ErrUnknown (possibly wrapped) when no model is available.
type Backend interface {
	Solve(vars map[Var]Type, constraints []*Pred) (Solution, error)
	Close()
}

// NewBackend returns the backend registered under name.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", "z3":
		return newZ3Backend(), nil
	}
	return nil, errors.Errorf("unknown solver backend %q", name)
}

// resultOf classifies an error returned by a Backend.
func resultOf(err error) int {
	switch errors.Cause(err) {
	case nil:
		return RESULT_SAT
	case ErrUnsat:
		return RESULT_UNSAT
	case ErrUnknown:
		return RESULT_UNKNOWN
	}
	return RESULT_ERROR
}
