package artifacts

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SyncReport describes the outcome of a single sync run.
type SyncReport struct {
	// RunID uniquely identifies the run. It is attached to every log line the run emits.
	RunID uuid.UUID

	// SourceRoot is the artifact directory that was synced from.
	SourceRoot string

	// TargetDir is the flat directory that was synced into.
	TargetDir string

	// CopiedCount is the number of successful copies.
	CopiedCount int

	// CopiedNames lists the file names copied, in copy order. A name copied more than once (see Collisions)
	// appears once per copy.
	CopiedNames []string

	// Failures lists every artifact or directory that could not be discovered or copied.
	Failures []*CopyError

	// Collisions lists file names which more than one source artifact mapped to. The last copy wins.
	Collisions []string

	// SourceMissing indicates the source root was absent and the run degraded to an empty sync.
	SourceMissing bool
}

// newSyncReport creates an empty SyncReport for a new run.
func newSyncReport(sourceRoot string, targetDir string) *SyncReport {
	return &SyncReport{
		RunID:       uuid.New(),
		SourceRoot:  sourceRoot,
		TargetDir:   targetDir,
		CopiedNames: make([]string, 0),
		Failures:    make([]*CopyError, 0),
		Collisions:  make([]string, 0),
	}
}

// HasFailures returns a boolean indicating whether any artifact could not be discovered or copied.
func (r *SyncReport) HasFailures() bool {
	return len(r.Failures) > 0
}

// String returns a human-readable, multi-line summary of the report.
func (r *SyncReport) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d ABIs synced", r.CopiedCount))
	if r.SourceMissing {
		sb.WriteString(fmt.Sprintf(" (source directory '%s' was missing)", r.SourceRoot))
	}
	for _, failure := range r.Failures {
		sb.WriteString(fmt.Sprintf("\n  failed: %s: %v", failure.Name, failure.Err))
	}
	for _, collision := range r.Collisions {
		sb.WriteString(fmt.Sprintf("\n  overwritten by a later artifact: %s", collision))
	}
	return sb.String()
}
