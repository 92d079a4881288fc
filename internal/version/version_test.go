package version

import (
	"runtime/debug"
	"testing"
)

func TestResolveFromBuildInfo(t *testing.T) {
	read := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "(devel)"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	info := resolve(read)
	if info.Version != "dev" {
		t.Fatalf("version: %q", info.Version)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Fatalf("build time: %q", info.BuildTime)
	}
	if got := info.String(); got != "dev (0123456789ab-dirty)" {
		t.Fatalf("string: %q", got)
	}
}

func TestResolveWithoutBuildInfo(t *testing.T) {
	info := resolve(func() (*debug.BuildInfo, bool) { return nil, false })
	if info.String() != "dev" {
		t.Fatalf("got %q", info.String())
	}
}
