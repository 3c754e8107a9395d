package exitcodes

import "github.com/pkg/errors"

// ErrorWithExitCode wraps an error with the exit code abisync should terminate with once the error reaches main.
type ErrorWithExitCode struct {
	err      error
	exitCode int
}

// NewErrorWithExitCode creates a new error (ErrorWithExitCode) with the provided internal error and exit code.
func NewErrorWithExitCode(err error, exitCode int) *ErrorWithExitCode {
	return &ErrorWithExitCode{
		err:      err,
		exitCode: exitCode,
	}
}

// Error returns the error message string, implementing the `error` interface.
func (e *ErrorWithExitCode) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// Unwrap returns the wrapped error, so callers can still match a MissingInputError or a network error beneath it.
func (e *ErrorWithExitCode) Unwrap() error {
	return e.err
}

// ExitCode returns the exit code carried by the error.
func (e *ErrorWithExitCode) ExitCode() int {
	return e.exitCode
}

// GetInnerErrorAndExitCode returns the error main should print and the exit code it should exit with: 0 for a nil
// error, the carried code if an ErrorWithExitCode is found anywhere in the chain, and 1 otherwise.
// An ErrorWithExitCode at the top of the chain is unwrapped. One found deeper keeps the outer context in the message.
func GetInnerErrorAndExitCode(err error) (error, int) {
	if err == nil {
		return nil, ExitCodeSuccess
	}

	if coded, ok := err.(*ErrorWithExitCode); ok {
		return coded.err, coded.exitCode
	}

	var coded *ErrorWithExitCode
	if errors.As(err, &coded) {
		return err, coded.exitCode
	}
	return err, ExitCodeGeneralError
}
