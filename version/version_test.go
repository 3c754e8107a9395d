package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInfoString checks the version banner with and without VCS information.
func TestInfoString(t *testing.T) {
	info := Info{Version: "1.2.3", GoVersion: "go1.23.3"}
	assert.True(t, strings.HasPrefix(info.String(), "abisync version 1.2.3\n"))
	assert.NotContains(t, info.String(), "Commit:")
	assert.NotContains(t, info.String(), "Built:")
	assert.EqualValues(t, "1.2.3", info.Short())

	info.Commit = "0123456789abcdef"
	info.Dirty = true
	info.CommitTime = time.Date(2025, 4, 23, 14, 10, 23, 0, time.UTC)
	assert.Contains(t, info.String(), "Commit:     0123456-dirty")
	assert.Contains(t, info.String(), "Built:      2025-04-23 14:10:23 UTC")
	assert.EqualValues(t, "1.2.3+0123456-dirty", info.Short())

	// A dirty flag alone does not invent a revision
	assert.EqualValues(t, "1.2.3", Info{Version: "1.2.3", Dirty: true}.Short())
}

// TestGetInfoLdflags checks that values set through ldflags are used.
func TestGetInfoLdflags(t *testing.T) {
	previousCommit, previousTime, previousDirty := GitCommit, GitCommitTime, GitTreeDirty
	t.Cleanup(func() {
		GitCommit, GitCommitTime, GitTreeDirty = previousCommit, previousTime, previousDirty
	})

	GitCommit = "fedcba9876543210"
	GitCommitTime = "2025-04-23T16:10:23+02:00"
	GitTreeDirty = "false"

	info := GetInfo()
	assert.EqualValues(t, "fedcba9876543210", info.Commit)
	assert.False(t, info.Dirty)
	assert.True(t, time.Date(2025, 4, 23, 14, 10, 23, 0, time.UTC).Equal(info.CommitTime))
	assert.NotEmpty(t, info.GoVersion)
}

// TestInfoSemVer checks that the built-in version is a valid semantic version.
func TestInfoSemVer(t *testing.T) {
	parsed, err := GetInfo().SemVer()
	require.NoError(t, err)
	assert.EqualValues(t, Version, parsed.String())

	_, err = Info{Version: "not-a-version"}.SemVer()
	assert.Error(t, err)
}
