package exitcodes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestGetInnerErrorAndExitCode checks the exit code mapping for nil, generic and coded errors.
func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, exitCode := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.EqualValues(t, ExitCodeSuccess, exitCode)

	generic := errors.New("generic failure")
	err, exitCode = GetInnerErrorAndExitCode(generic)
	assert.Equal(t, generic, err)
	assert.EqualValues(t, ExitCodeGeneralError, exitCode)

	inner := errors.New("artifact directory missing")
	err, exitCode = GetInnerErrorAndExitCode(NewErrorWithExitCode(inner, ExitCodeMissingInput))
	assert.Equal(t, inner, err)
	assert.EqualValues(t, ExitCodeMissingInput, exitCode)
}

// TestErrorWithExitCodeMessage checks that the wrapped error's message is used.
func TestErrorWithExitCodeMessage(t *testing.T) {
	assert.EqualValues(t, "wrong network", NewErrorWithExitCode(errors.New("wrong network"), ExitCodeWrongNetwork).Error())
	assert.EqualValues(t, "", NewErrorWithExitCode(nil, ExitCodeHandledError).Error())
}

// TestWrappedErrorWithExitCode checks that a coded error keeps its exit code when wrapped with more context, and
// that the error beneath it can still be matched.
func TestWrappedErrorWithExitCode(t *testing.T) {
	inner := &testMissingInputError{path: "foundry/out"}
	coded := NewErrorWithExitCode(inner, ExitCodeMissingInput)
	assert.EqualValues(t, ExitCodeMissingInput, coded.ExitCode())

	wrapped := errors.Wrap(coded, "sync failed")
	err, exitCode := GetInnerErrorAndExitCode(wrapped)
	assert.EqualValues(t, ExitCodeMissingInput, exitCode)
	assert.EqualValues(t, "sync failed: artifact directory foundry/out is missing", err.Error())

	var missing *testMissingInputError
	assert.True(t, errors.As(wrapped, &missing))
	assert.EqualValues(t, "foundry/out", missing.path)
}

// testMissingInputError stands in for a typed error returned by a sync.
type testMissingInputError struct {
	path string
}

func (e *testMissingInputError) Error() string {
	return "artifact directory " + e.path + " is missing"
}
