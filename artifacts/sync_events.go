package artifacts

import "github.com/crytic/abisync/events"

// SyncerEvents defines the event emitters for a Syncer.
type SyncerEvents struct {
	// SyncStarting emits events when a sync run has confirmed its source root and is about to discover artifacts.
	SyncStarting events.EventEmitter[SyncStartingEvent]

	// ArtifactCopied emits events when an artifact has been copied into the target directory.
	ArtifactCopied events.EventEmitter[ArtifactCopiedEvent]

	// ArtifactCopyFailed emits events when an artifact or directory could not be discovered or copied.
	ArtifactCopyFailed events.EventEmitter[ArtifactCopyFailedEvent]

	// SyncFinished emits events when a sync run has completed, including runs that degraded to an empty sync.
	SyncFinished events.EventEmitter[SyncFinishedEvent]
}

// SyncStartingEvent describes an event where a sync run is starting.
type SyncStartingEvent struct {
	// Syncer represents the instance of the Syncer for which the event occurred.
	Syncer *Syncer
}

// ArtifactCopiedEvent describes an event where an artifact was copied.
type ArtifactCopiedEvent struct {
	// Syncer represents the instance of the Syncer for which the event occurred.
	Syncer *Syncer

	// Name is the artifact file name.
	Name string

	// SourcePath is the path the artifact was copied from.
	SourcePath string

	// TargetPath is the path the artifact was copied to.
	TargetPath string
}

// ArtifactCopyFailedEvent describes an event where an artifact could not be discovered or copied.
type ArtifactCopyFailedEvent struct {
	// Syncer represents the instance of the Syncer for which the event occurred.
	Syncer *Syncer

	// Failure describes what failed.
	Failure *CopyError
}

// SyncFinishedEvent describes an event where a sync run has finished.
type SyncFinishedEvent struct {
	// Syncer represents the instance of the Syncer for which the event occurred.
	Syncer *Syncer

	// Report is the final report of the run.
	Report *SyncReport
}
