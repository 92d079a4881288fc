package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/pfsextract/internal/server"
	"github.com/samcharles93/pfsextract/internal/sink"
)

// resetFlags restores the package-level flag state shared by runs of newApp.
// Tests calling it must not run in parallel.
func resetFlags() {
	configFile, logLevel, logFormat = "", "", ""
	debug, noColor = false, false
	outputSuffix = ""
	writeManifest = false
	cfg = Config{}
	serverAddr = "127.0.0.1:8080"
	maxImageSize = server.DefaultMaxImageSize
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"pfsextract"}, args...))
	return out.String(), err
}

func TestUsageBanner(t *testing.T) {
	cfgPath := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"two arguments", []string{"a.bin", "b.bin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath, "--log-level", "error"}, tt.args...)
			out, err := runApp(t, args...)
			if !errors.Is(err, errUsage) {
				t.Fatalf("err = %v, want errUsage", err)
			}
			if got := exitCode(err); got != exitUsage {
				t.Fatalf("exit = %d, want %d", got, exitUsage)
			}
			if !strings.Contains(out, "Usage: pfsextract pfs_file.bin") {
				t.Fatalf("banner missing from output:\n%s", out)
			}
		})
	}
}

func TestConfigPrecedence(t *testing.T) {
	cfgPath := writeConfig(t, "output_suffix: .cfg\nmanifest: true\n")

	tests := []struct {
		name         string
		args         []string
		wantSuffix   string
		wantManifest bool
	}{
		{
			name:         "bare path uses config",
			wantSuffix:   ".cfg",
			wantManifest: true,
		},
		{
			name:         "extract uses config",
			args:         []string{"extract"},
			wantSuffix:   ".cfg",
			wantManifest: true,
		},
		{
			name:         "extract flags win",
			args:         []string{"extract", "--suffix", ".flag", "--manifest=false"},
			wantSuffix:   ".flag",
			wantManifest: false,
		},
		{
			name:         "suffix flag only",
			args:         []string{"extract", "--suffix", ".flag"},
			wantSuffix:   ".flag",
			wantManifest: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeInput(t, pfsImage([]byte("body")))
			args := append([]string{"--config", cfgPath, "--log-level", "error"}, tt.args...)
			if _, err := runApp(t, append(args, input)...); err != nil {
				t.Fatalf("run: %v", err)
			}

			out := input + tt.wantSuffix
			if _, err := os.Stat(filepath.Join(out, "section_0_1.data")); err != nil {
				t.Fatalf("artifact not under %s: %v", out, err)
			}
			_, err := os.Stat(filepath.Join(out, sink.ManifestName))
			if gotManifest := err == nil; gotManifest != tt.wantManifest {
				t.Fatalf("manifest written = %v, want %v (%v)", gotManifest, tt.wantManifest, err)
			}
		})
	}
}

func TestConfigDefaultsWithoutFile(t *testing.T) {
	cfgPath := writeConfig(t, "")
	input := writeInput(t, pfsImage([]byte("body")))

	if _, err := runApp(t, "--config", cfgPath, "--log-level", "error", input); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := input + defaultOutputSuffix
	if _, err := os.Stat(filepath.Join(out, "section_0_1.data")); err != nil {
		t.Fatalf("artifact not under %s: %v", out, err)
	}
	if _, err := os.Stat(filepath.Join(out, sink.ManifestName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("unexpected manifest: %v", err)
	}
}
