package artifacts

import "fmt"

// MissingInputError indicates that the artifact source root does not exist or is not a directory, usually because
// the contract build step has not been run yet.
type MissingInputError struct {
	// Path is the source root which was expected to exist.
	Path string

	// Err is the underlying file system error, if the source root exists but could not be inspected or is not a
	// directory.
	Err error
}

// Error returns the error message string, implementing the `error` interface.
func (e *MissingInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("artifact source directory '%s' is unavailable: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("artifact source directory '%s' does not exist, run the contract build first", e.Path)
}

// Unwrap returns the underlying error, if any.
func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// CopyError describes a single artifact which could not be discovered or copied. It is recorded in a SyncReport and
// never aborts a sync.
type CopyError struct {
	// Name is the artifact file name (or, for discovery failures, the path relative to the source root).
	Name string

	// SourcePath is the path the artifact was read from.
	SourcePath string

	// TargetPath is the path the artifact was to be written to. Empty for discovery failures.
	TargetPath string

	// Err is the underlying error.
	Err error
}

// Error returns the error message string, implementing the `error` interface.
func (e *CopyError) Error() string {
	if e.TargetPath == "" {
		return fmt.Sprintf("could not read '%s': %v", e.SourcePath, e.Err)
	}
	return fmt.Sprintf("could not copy '%s' to '%s': %v", e.SourcePath, e.TargetPath, e.Err)
}

// Unwrap returns the underlying error.
func (e *CopyError) Unwrap() error {
	return e.Err
}
