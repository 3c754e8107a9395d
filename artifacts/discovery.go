package artifacts

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/crytic/abisync/utils"
	"github.com/pkg/errors"
)

const (
	// BuildInfoDirectoryName is the name of the directory the contract build tool uses for build metadata. It is
	// never treated as a contract unit, at any depth.
	BuildInfoDirectoryName = "build-info"

	// ArtifactFileExtension is the extension of contract interface descriptor files.
	ArtifactFileExtension = ".json"
)

// DiscoveryStrategy describes how candidate artifacts are located beneath a source root.
type DiscoveryStrategy string

const (
	// DiscoveryStrategyWalk walks the whole source tree and collects every .json file outside build-info
	// directories.
	DiscoveryStrategyWalk DiscoveryStrategy = "walk"

	// DiscoveryStrategyDirect only looks for <Name>.<ext>/<Name>.json beneath each top-level contract unit
	// directory, silently skipping units where that file is absent.
	DiscoveryStrategyDirect DiscoveryStrategy = "direct"
)

// SupportedDiscoveryStrategies lists every DiscoveryStrategy, in the order they are presented to users.
var SupportedDiscoveryStrategies = []DiscoveryStrategy{DiscoveryStrategyWalk, DiscoveryStrategyDirect}

// Validate returns an error if the strategy is not one of SupportedDiscoveryStrategies.
func (s DiscoveryStrategy) Validate() error {
	for _, supported := range SupportedDiscoveryStrategies {
		if s == supported {
			return nil
		}
	}
	return errors.Errorf("unsupported discovery strategy '%s' (options: walk, direct)", s)
}

// DiscoveryResult holds the outcome of Discover.
type DiscoveryResult struct {
	// Candidates are the artifact file paths found, in lexical path order.
	Candidates []string

	// Failures describe directories which could not be read. Their contents were skipped.
	Failures []*CopyError
}

// Discover locates candidate artifact files beneath sourceRoot using the given strategy. Unreadable directories are
// recorded in the result rather than returned, so an error is only returned for an unsupported strategy.
func Discover(sourceRoot string, strategy DiscoveryStrategy) (*DiscoveryResult, error) {
	result := &DiscoveryResult{
		Candidates: make([]string, 0),
		Failures:   make([]*CopyError, 0),
	}

	switch strategy {
	case DiscoveryStrategyWalk:
		discoverByWalking(sourceRoot, result)
	case DiscoveryStrategyDirect:
		discoverDirectly(sourceRoot, result)
	default:
		return nil, strategy.Validate()
	}
	return result, nil
}

// discoverByWalking walks every directory beneath sourceRoot except build-info directories. A symlinked source root
// is followed, and candidates are reported beneath sourceRoot itself.
func discoverByWalking(sourceRoot string, result *DiscoveryResult) {
	walkRoot := sourceRoot
	if resolved, err := filepath.EvalSymlinks(sourceRoot); err == nil {
		walkRoot = resolved
	}

	// The walk function never returns an error other than SkipDir, so WalkDir itself cannot fail.
	_ = filepath.WalkDir(walkRoot, func(walkPath string, entry fs.DirEntry, err error) error {
		path := rebasePath(walkRoot, sourceRoot, walkPath)
		if err != nil {
			result.Failures = append(result.Failures, &CopyError{
				Name:       relativeName(sourceRoot, path),
				SourcePath: path,
				Err:        errors.WithStack(err),
			})
			if entry != nil && entry.IsDir() && walkPath != walkRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if walkPath != walkRoot && entry.Name() == BuildInfoDirectoryName {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(entry.Name(), ArtifactFileExtension) {
			result.Candidates = append(result.Candidates, path)
		}
		return nil
	})
}

// discoverDirectly builds the expected descriptor path for each top-level contract unit directory.
func discoverDirectly(sourceRoot string, result *DiscoveryResult) {
	entries, err := os.ReadDir(sourceRoot)
	if err != nil {
		result.Failures = append(result.Failures, &CopyError{
			Name:       filepath.Base(sourceRoot),
			SourcePath: sourceRoot,
			Err:        errors.WithStack(err),
		})
		return
	}

	contractUnits := utils.SliceWhere(entries, func(entry os.DirEntry) bool {
		return entry.IsDir() && entry.Name() != BuildInfoDirectoryName
	})
	for _, entry := range contractUnits {
		contractName := utils.GetFileNameWithoutExtension(entry.Name())
		candidate := filepath.Join(sourceRoot, entry.Name(), contractName+ArtifactFileExtension)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			result.Candidates = append(result.Candidates, candidate)
		}
	}
}

// relativeName returns path relative to root using forward slashes, or path itself if it is not beneath root.
func relativeName(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// rebasePath moves path from beneath oldRoot to beneath newRoot. Paths outside oldRoot are returned unchanged.
func rebasePath(oldRoot string, newRoot string, path string) string {
	if oldRoot == newRoot {
		return path
	}
	rel, err := filepath.Rel(oldRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(newRoot, rel)
}
