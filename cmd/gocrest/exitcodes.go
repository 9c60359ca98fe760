package main

const (
	exitCodeSuccess      = 0
	exitCodeGeneralError = 1
	// exitCodeInfeasible is returned by solve when the flipped branch cannot
	// be taken. Codes 2-5 are avoided as they are commonly used by shells.
	exitCodeInfeasible = 6
)

// errorWithExitCode carries the exit code an error should produce when it
// reaches main.
type errorWithExitCode struct {
	err      error
	exitCode int
}

func newErrorWithExitCode(err error, exitCode int) *errorWithExitCode {
	return &errorWithExitCode{err: err, exitCode: exitCode}
}

func (e *errorWithExitCode) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *errorWithExitCode) Unwrap() error {
	return e.err
}

func innerErrorAndExitCode(err error) (error, int) {
	if err == nil {
		return nil, exitCodeSuccess
	} else if withCode, ok := err.(*errorWithExitCode); ok {
		return withCode.err, withCode.exitCode
	}
	return err, exitCodeGeneralError
}
