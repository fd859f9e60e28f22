package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	t.Run("VCS 정보로 커밋 채움", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "f25b8bf0123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			}, true
		}

		bi := resolve(Info{})
		assert.Equal(t, unknown, bi.Version)
		assert.Equal(t, "f25b8bf0123", bi.Commit)
		assert.Equal(t, "2026-01-02T03:04:05Z", bi.BuildDate)
		assert.True(t, bi.DirtyBuild)
		assert.Equal(t, runtime.Version(), bi.GoVersion)
	})

	t.Run("빌드 시 주입한 값 우선", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main:     debug.Module{Version: "v0.0.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}},
			}, true
		}

		bi := resolve(Info{Version: "v1.2.0", Commit: "abc"})
		assert.Equal(t, "v1.2.0", bi.Version)
		assert.Equal(t, "abc", bi.Commit)
	})

	t.Run("빌드 정보 없음", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		bi := resolve(Info{})
		assert.Equal(t, unknown, bi.Version)
		assert.Equal(t, unknown, bi.Commit)
	})
}

func TestInfo_String(t *testing.T) {
	assert.Equal(t, unknown, Info{}.String())
	assert.Equal(t, "v1+dirty", Info{Version: "v1", DirtyBuild: true}.String())
	assert.Equal(t,
		"v1.2.0 (commit: f25b8bf, build: 12, go1.24.0 linux/amd64)",
		Info{Version: "v1.2.0", Commit: "f25b8bf0123", BuildNumber: "12", GoVersion: "go1.24.0", OS: "linux", Arch: "amd64"}.String(),
	)
}

func TestGet(t *testing.T) {
	bi := Get()
	assert.NotEmpty(t, bi.Version)
	assert.Equal(t, bi, Get())
}
