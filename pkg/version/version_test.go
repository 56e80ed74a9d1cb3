package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date

	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "dev", "unknown", "unknown"

	fromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
		},
	})

	assert.Equal(t, "v1.2.3 (commit: abc123, built: 2024-05-01T10:00:00Z)", String())
}

func TestFromBuildInfo_KeepsLinkerValues(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date

	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "v9.0.0", "feed", "yesterday"

	fromBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	assert.Equal(t, "v9.0.0", Version)
	assert.Equal(t, "feed", Commit)
	assert.Equal(t, "yesterday", Date)
}
