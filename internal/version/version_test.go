package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, built string) {
	t.Helper()
	oldVersion, oldCommit, oldBuilt := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuilt })
}

func TestGetRelease(t *testing.T) {
	stamp(t, "v0.3.0", "1a2b3c4d5e6f", "2026-01-02T03:04:05Z")

	info := Get()
	assert.Equal(t, "v0.3.0", info.Version)
	assert.True(t, info.IsRelease())
	assert.Equal(t, "v0.3.0 (1a2b3c4)", info.Short())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Contains(t, info.Platform, "/")
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"))
}

func TestGetDevelopment(t *testing.T) {
	stamp(t, "dev", "abcdef0123", "unknown")

	info := Get()
	assert.Equal(t, "dev-abcdef0", info.Version)
	assert.False(t, info.IsRelease())
	assert.Equal(t, "dev-abcdef0", info.Short())
}

func TestString(t *testing.T) {
	info := &BuildInfo{
		Version:   "v1.0.0",
		GitCommit: "1a2b3c4",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
		Dirty:     true,
	}
	assert.Equal(t, "Version: v1.0.0\nCommit: 1a2b3c4 (dirty)\nGo: go1.24.0\nPlatform: linux/amd64", info.String())
}

func TestParseBuildTime(t *testing.T) {
	tests := map[string]bool{
		"2026-01-02T03:04:05Z": true,
		"2026-01-02T03:04:05":  true,
		"2026-01-02 03:04:05":  true,
		"yesterday":            false,
		"unknown":              false,
		"":                     false,
	}
	for input, ok := range tests {
		assert.Equal(t, ok, !parseBuildTime(input).IsZero(), input)
	}
}
