package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/borzacchiello/gocrest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedExecution() *gocrest.Execution {
	ex := gocrest.NewExecution(false)
	x0 := ex.DeclareVar(gocrest.TY_U_CHAR, 7)
	x1 := ex.DeclareVar(gocrest.TY_INT, 3)
	ex.Path().PushConstraint(4, gocrest.NewPred(gocrest.OP_LE, gocrest.NewVarExpr(1, x0).SubConst(200)))
	ex.Path().Push(5)
	ex.Path().PushConstraint(6, gocrest.NewPred(gocrest.OP_EQ, gocrest.NewVarExpr(1, x1).SubConst(3)))
	return ex
}

func TestSolveBranch(t *testing.T) {
	inputs, err := solveBranch(recordedExecution(), 1, "z3")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, gocrest.Value(7), inputs[0])
	assert.NotEqual(t, gocrest.Value(3), inputs[1])

	inputs, err = solveBranch(recordedExecution(), 0, "z3")
	require.NoError(t, err)
	assert.Greater(t, inputs[0], gocrest.Value(200))
	assert.Equal(t, gocrest.Value(3), inputs[1])
}

func TestSolveBranchInfeasible(t *testing.T) {
	ex := gocrest.NewExecution(false)
	x0 := ex.DeclareVar(gocrest.TY_U_CHAR, 7)
	ex.Path().PushConstraint(1, gocrest.NewPred(gocrest.OP_LE, gocrest.NewVarExpr(1, x0).SubConst(255)))

	_, err := solveBranch(ex, 0, "z3")
	require.Error(t, err)
	inner, code := innerErrorAndExitCode(err)
	assert.Equal(t, exitCodeInfeasible, code)
	assert.ErrorIs(t, inner, gocrest.ErrUnsat)
}

func TestSolveBranchErrors(t *testing.T) {
	_, err := solveBranch(recordedExecution(), 2, "z3")
	assert.Error(t, err)

	_, err = solveBranch(recordedExecution(), 0, "cvc5")
	assert.Error(t, err)
}

func TestInnerErrorAndExitCode(t *testing.T) {
	err, code := innerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, exitCodeSuccess, code)

	plain := errors.New("boom")
	err, code = innerErrorAndExitCode(plain)
	assert.Equal(t, plain, err)
	assert.Equal(t, exitCodeGeneralError, code)
}

func TestPrintExecution(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, printExecution(&buf, recordedExecution()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "variables: 2\n"))
	assert.Contains(t, out, "branches: 3 (fingerprint ")
	assert.Contains(t, out, "constraints: 2\n")
	assert.Contains(t, out, "  [0] branch 4 at 0: (<= (- x0 200) 0)\n")
	assert.Contains(t, out, "  [1] branch 6 at 2: (= (- x1 3) 0)\n")
}
