package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeMissingInput indicates the artifact directory did not exist, so the contracts have not been built.
	ExitCodeMissingInput = 8

	// ExitCodeWrongNetwork indicates the node is connected to a different chain than the one the dapp expects.
	ExitCodeWrongNetwork = 9

	// ExitCodeHandledError indicates the error was already reported to the user, so it should not be printed again.
	ExitCodeHandledError = -1
)
