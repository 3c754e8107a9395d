package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crytic/abisync/logging"
	"github.com/crytic/abisync/logging/colors"
	"github.com/crytic/abisync/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ArtifactHashCacheFileName is the name of the file used to store the artifact hash.
const ArtifactHashCacheFileName = ".abisync-artifact-hash"

// ArtifactHashCache stores the hash of the last synced artifact set along with metadata.
type ArtifactHashCache struct {
	// Hash is the SHA-256 hash of the synced artifact names and contents.
	Hash string `json:"hash"`
	// Count is the number of artifacts the hash covers.
	Count int `json:"count"`
	// Timestamp is when the hash was computed.
	Timestamp time.Time `json:"timestamp"`
}

// ComputeArtifactHash computes a SHA-256 hash over the given artifact file names in targetDir and their contents.
// Names are de-duplicated and sorted first, so the hash does not depend on copy order.
func ComputeArtifactHash(targetDir string, names []string) (string, error) {
	hasher := sha256.New()
	for _, name := range uniqueSortedNames(names) {
		content, err := os.ReadFile(filepath.Join(targetDir, name))
		if err != nil {
			return "", errors.WithStack(err)
		}
		// Each entry is written as <len>:<name><len>:<content>.
		fmt.Fprintf(hasher, "%d:%s%d:", len(name), name, len(content))
		hasher.Write(content)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// LoadArtifactHashCache loads the artifact hash cache from the specified directory.
// Returns nil if the cache file does not exist or cannot be parsed.
func LoadArtifactHashCache(directory string) *ArtifactHashCache {
	data, err := os.ReadFile(filepath.Join(directory, ArtifactHashCacheFileName))
	if err != nil {
		return nil
	}

	var cache ArtifactHashCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil
	}
	return &cache
}

// SaveArtifactHashCache saves the artifact hash cache to the specified directory, creating it if needed.
func SaveArtifactHashCache(directory string, cache *ArtifactHashCache) error {
	if err := utils.MakeDirectory(directory); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal cache")
	}

	if err := os.WriteFile(filepath.Join(directory, ArtifactHashCacheFileName), data, 0644); err != nil {
		return errors.Wrap(err, "failed to write cache file")
	}
	return nil
}

// NotifyArtifactHashStatus compares the hash of the artifacts copied by a sync run with the hash cached by the
// previous run and logs whether the front end received a new set of artifacts. It then updates the cache.
// Runs which copied nothing are ignored.
func NotifyArtifactHashStatus(report *SyncReport, cacheDirectory string, logger *logging.Logger) {
	if report == nil || report.CopiedCount == 0 {
		return
	}

	currentHash, err := ComputeArtifactHash(report.TargetDir, report.CopiedNames)
	if err != nil {
		logger.Warn("Failed to hash the synced artifacts", err)
		return
	}

	cachedHash := LoadArtifactHashCache(cacheDirectory)
	if cachedHash == nil || cachedHash.Hash != currentHash {
		logger.Info(
			colors.Bold, "artifacts: ", colors.Reset,
			"the front end received a ", colors.GreenBold, "new", colors.Reset, " set of contract ABIs",
		)
	} else {
		logger.Info(
			colors.Bold, "artifacts: ", colors.Reset,
			"contract ABIs are ", colors.YellowBold, "unchanged", colors.Reset,
			" since the previous sync (", formatDuration(time.Since(cachedHash.Timestamp)), " ago)",
		)
	}

	newCache := &ArtifactHashCache{
		Hash:      currentHash,
		Count:     len(uniqueSortedNames(report.CopiedNames)),
		Timestamp: time.Now(),
	}
	if err := SaveArtifactHashCache(cacheDirectory, newCache); err != nil {
		logger.Warn("Failed to save artifact hash cache", err)
	}
}

// uniqueSortedNames returns a sorted, de-duplicated copy of names.
func uniqueSortedNames(names []string) []string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
