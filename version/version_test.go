package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	info := Info{Version: "dev", CommitHash: "abc1234def", BuildTime: "unknown"}
	assert.Equal(t, "hourgen dev (commit abc1234, built unknown)", info.String())

	info.Modified = true
	assert.True(t, strings.HasSuffix(info.String(), "+modified"))
}

func TestInfo_Short(t *testing.T) {
	assert.Equal(t, "abc1234", Info{CommitHash: "abc1234def"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestFillFrom(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2024-03-15T07:00:00Z"},
			{Key: "vcs.modified", Value: "false"},
		},
	}

	info := Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}
	info.fillFrom(bi)
	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "0123456789abcdef", info.CommitHash)
	assert.Equal(t, "2024-03-15T07:00:00Z", info.BuildTime)
	assert.False(t, info.Modified)

	// ldflags values win
	info = Info{Version: "v1.0.0", CommitHash: "fedcba9", BuildTime: "now"}
	info.fillFrom(bi)
	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "fedcba9", info.CommitHash)
	assert.Equal(t, "now", info.BuildTime)
}

func TestFillFrom_DevelModule(t *testing.T) {
	info := Info{Version: "dev"}
	info.fillFrom(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", info.Version)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
