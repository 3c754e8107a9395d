package artifacts

import (
	"path/filepath"
	"strings"

	"github.com/crytic/abisync/logging"
	"github.com/crytic/abisync/logging/colors"
	"github.com/crytic/abisync/utils"
	"github.com/pkg/errors"
)

// MissingSourcePolicy describes what a sync does when its source root does not exist.
type MissingSourcePolicy string

const (
	// MissingSourcePolicyAbort fails the sync with a MissingInputError and leaves the target directory untouched.
	MissingSourcePolicyAbort MissingSourcePolicy = "abort"

	// MissingSourcePolicySkip logs a warning and completes with an empty report.
	MissingSourcePolicySkip MissingSourcePolicy = "skip"
)

// Validate returns an error if the policy is not a known MissingSourcePolicy.
func (p MissingSourcePolicy) Validate() error {
	if p != MissingSourcePolicyAbort && p != MissingSourcePolicySkip {
		return errors.Errorf("unsupported missing source policy '%s' (options: abort, skip)", p)
	}
	return nil
}

// SyncOptions describes how a Syncer discovers artifacts and handles a missing source root.
type SyncOptions struct {
	// Strategy describes how candidate artifacts are discovered.
	Strategy DiscoveryStrategy

	// MissingSourcePolicy describes what happens when the source root does not exist.
	MissingSourcePolicy MissingSourcePolicy
}

// DefaultSyncOptions returns the SyncOptions used when none are configured.
func DefaultSyncOptions() SyncOptions {
	return SyncOptions{
		Strategy:            DiscoveryStrategyWalk,
		MissingSourcePolicy: MissingSourcePolicyAbort,
	}
}

// Validate returns an error if any option is unsupported.
func (o SyncOptions) Validate() error {
	if err := o.Strategy.Validate(); err != nil {
		return err
	}
	return o.MissingSourcePolicy.Validate()
}

// ValidateDirectories returns an error if sourceRoot and targetDir are the same directory or one contains the other.
// A target inside the source would be rediscovered and copied onto itself by the next sync. Symlinks are resolved
// for the parts of each path that exist.
func ValidateDirectories(sourceRoot string, targetDir string) error {
	source, target := comparablePath(sourceRoot), comparablePath(targetDir)
	switch {
	case source == target:
		return errors.Errorf("sync source and target directories must differ")
	case isWithinDirectory(target, source):
		return errors.Errorf("sync target directory '%s' must not be inside the source directory '%s'", targetDir, sourceRoot)
	case isWithinDirectory(source, target):
		return errors.Errorf("sync source directory '%s' must not be inside the target directory '%s'", sourceRoot, targetDir)
	}
	return nil
}

// comparablePath returns path made absolute, with symlinks resolved in its longest existing prefix.
func comparablePath(path string) string {
	if absolute, err := filepath.Abs(path); err == nil {
		path = absolute
	}
	path = filepath.Clean(path)

	suffix := ""
	for current := path; ; {
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			return filepath.Join(resolved, suffix)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return path
		}
		suffix = filepath.Join(filepath.Base(current), suffix)
		current = parent
	}
}

// isWithinDirectory returns a boolean indicating whether path is strictly beneath directory.
func isWithinDirectory(path string, directory string) bool {
	rel, err := filepath.Rel(directory, path)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Syncer copies the contract interface descriptors found beneath a source root into a flat target directory.
// A Syncer performs one single-threaded pass per call to Sync.
type Syncer struct {
	// sourceRoot is the artifact directory produced by the contract build tool.
	sourceRoot string

	// targetDir is the flat directory descriptors are copied into.
	targetDir string

	// options describes the discovery strategy and missing source policy.
	options SyncOptions

	// logger describes the Syncer's log object that can be used to log important events
	logger *logging.Logger

	// Events describes the event system for the Syncer.
	Events SyncerEvents
}

// NewSyncer returns a Syncer for the given directories, or an error if the options are invalid or the directories
// overlap.
func NewSyncer(sourceRoot string, targetDir string, options SyncOptions) (*Syncer, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDirectories(sourceRoot, targetDir); err != nil {
		return nil, err
	}

	return &Syncer{
		sourceRoot: sourceRoot,
		targetDir:  targetDir,
		options:    options,
		logger:     logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.SYNC_SERVICE),
	}, nil
}

// Sync creates a Syncer and runs it once. See Syncer.Sync.
func Sync(sourceRoot string, targetDir string, options SyncOptions) (*SyncReport, error) {
	syncer, err := NewSyncer(sourceRoot, targetDir, options)
	if err != nil {
		return nil, err
	}
	return syncer.Sync()
}

// SourceRoot returns the artifact directory the Syncer reads from.
func (s *Syncer) SourceRoot() string {
	return s.sourceRoot
}

// TargetDir returns the flat directory the Syncer writes to.
func (s *Syncer) TargetDir() string {
	return s.targetDir
}

// Sync discovers every artifact beneath the source root and copies it, flattened, into the target directory,
// overwriting existing files. The target directory is created if needed.
//
// An error is only returned when the source root is unavailable under MissingSourcePolicyAbort, or when it exists
// but is not a directory. Once the source root has been confirmed, every discovery or copy failure is recorded in
// the returned SyncReport and the remaining artifacts are still processed.
func (s *Syncer) Sync() (*SyncReport, error) {
	report := newSyncReport(s.sourceRoot, s.targetDir)
	logger := s.logger.NewSubLogger(logging.RUN_ID_KEY, report.RunID.String())

	// Confirm the source root before touching the target so that an aborted run leaves it as it was.
	isDir, info, err := utils.DirectoryExists(s.sourceRoot)
	if err != nil {
		return nil, &MissingInputError{Path: s.sourceRoot, Err: err}
	}
	if !isDir && info != nil {
		return nil, &MissingInputError{Path: s.sourceRoot, Err: errors.New("path is not a directory")}
	}
	if !isDir {
		if s.options.MissingSourcePolicy == MissingSourcePolicyAbort {
			return nil, &MissingInputError{Path: s.sourceRoot}
		}

		logger.Warn("Artifact directory ", colors.Bold, s.sourceRoot, colors.Reset,
			" does not exist, run the contract build first. Nothing will be synced.")
		report.SourceMissing = true
		s.ensureTargetDir(logger)
		s.publish(logger, s.Events.SyncFinished.Publish(SyncFinishedEvent{Syncer: s, Report: report}))
		return report, nil
	}

	logger.Info("Syncing ABIs from ", colors.Bold, s.sourceRoot, colors.Reset, " to ", colors.Bold, s.targetDir, colors.Reset)
	s.publish(logger, s.Events.SyncStarting.Publish(SyncStartingEvent{Syncer: s}))
	s.ensureTargetDir(logger)

	// Discovery only fails for an unsupported strategy, which NewSyncer has already ruled out.
	discovered, err := Discover(s.sourceRoot, s.options.Strategy)
	if err != nil {
		discovered = &DiscoveryResult{}
		s.recordFailure(logger, report, &CopyError{Name: filepath.Base(s.sourceRoot), SourcePath: s.sourceRoot, Err: err})
	}
	for _, failure := range discovered.Failures {
		s.recordFailure(logger, report, failure)
	}

	// sourceByName tracks which source path last wrote each target file name.
	sourceByName := make(map[string]string, len(discovered.Candidates))
	for _, sourcePath := range discovered.Candidates {
		name := filepath.Base(sourcePath)
		targetPath := filepath.Join(s.targetDir, name)

		if previous, ok := sourceByName[name]; ok {
			logger.Warn(colors.Bold, name, colors.Reset, " from ", previous, " is overwritten by ", sourcePath)
			report.Collisions = appendUnique(report.Collisions, name)
		}
		sourceByName[name] = sourcePath

		if err := utils.CopyFile(sourcePath, targetPath); err != nil {
			s.recordFailure(logger, report, &CopyError{Name: name, SourcePath: sourcePath, TargetPath: targetPath, Err: err})
			continue
		}

		report.CopiedCount++
		report.CopiedNames = append(report.CopiedNames, name)
		logger.Info(colors.GreenBold, colors.CHECK_MARK, colors.Reset, " ", name)
		s.publish(logger, s.Events.ArtifactCopied.Publish(ArtifactCopiedEvent{
			Syncer:     s,
			Name:       name,
			SourcePath: sourcePath,
			TargetPath: targetPath,
		}))
	}

	if report.HasFailures() {
		logger.Warn(colors.GreenBold, colors.CHECK_MARK, colors.Reset, " ", report.CopiedCount, " ABIs synced, ",
			colors.RedBold, len(report.Failures), colors.Reset, " failed")
	} else {
		logger.Info(colors.GreenBold, colors.CHECK_MARK, colors.Reset, " ", report.CopiedCount, " ABIs synced")
	}
	s.publish(logger, s.Events.SyncFinished.Publish(SyncFinishedEvent{Syncer: s, Report: report}))
	return report, nil
}

// ensureTargetDir creates the target directory. A failure is only logged: every copy will then fail and be recorded
// individually.
func (s *Syncer) ensureTargetDir(logger *logging.Logger) {
	if err := utils.MakeDirectory(s.targetDir); err != nil {
		logger.Error("Failed to create the target directory ", colors.Bold, s.targetDir, colors.Reset, err)
	}
}

// recordFailure adds a failure to the report, logs it and publishes it.
func (s *Syncer) recordFailure(logger *logging.Logger, report *SyncReport, failure *CopyError) {
	report.Failures = append(report.Failures, failure)
	logger.Error(colors.RedBold, colors.CROSS_MARK, colors.Reset, " Error copying ", failure.Name, ": ", failure.Err.Error())
	s.publish(logger, s.Events.ArtifactCopyFailed.Publish(ArtifactCopyFailedEvent{Syncer: s, Failure: failure}))
}

// publish logs an error returned by an event handler. Handler errors never interrupt a sync.
func (s *Syncer) publish(logger *logging.Logger, err error) {
	if err != nil {
		logger.Warn("An event handler returned an error", err)
	}
}

// appendUnique appends value to values unless it is already present.
func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
