// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/twist/twistconfig/internal/issue"
	"github.com/twist/twistconfig/internal/testutil"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	testutil.MustMkdirAll(t, dir, 0o755)
	path := SettingsFile(dir)
	testutil.MustWriteFile(t, path, content)
	return path
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Format != FormatJSON {
		t.Errorf("expected default format json, got %s", s.Format)
	}
	if s.Context != "" || s.Root != "" || s.NoRoot {
		t.Errorf("expected empty context/root defaults, got %+v", s)
	}
	if s.Watch.Debounce != DefaultDebounce {
		t.Errorf("expected default debounce %s, got %s", DefaultDebounce, s.Watch.Debounce)
	}
	if s.Options == nil || len(s.Options) != 0 {
		t.Errorf("expected empty non-nil options, got %v", s.Options)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux-only")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	SetConfigDirOverride("/override")
	defer Reset()
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != "/override" {
		t.Errorf("ConfigDir() = %s, want /override", dir)
	}
}

func TestLoad_DefaultsWhenNoSettingsFile(t *testing.T) {
	res, err := LoadResult(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
		ProjectDir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("LoadResult() returned error: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("expected no files, got %v", res.Files)
	}
	if res.Settings.Format != FormatJSON || res.Settings.Watch.Debounce != DefaultDebounce {
		t.Errorf("expected defaults, got %+v", res.Settings)
	}
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	userDir := t.TempDir()
	projectDir := t.TempDir()

	userFile := writeSettings(t, userDir, `
context: "browser"
format: "yaml"
node_path: ["/opt/libs"]
options: {
	useBabelModuleResolver: true
	targets: {node: "current"}
}
`)
	projectFile := writeSettings(t, projectDir, `
format: "toml"
options: targets: {node: "18"}
watch: debounce: "2s"
`)

	res, err := LoadResult(context.Background(), LoadOptions{ConfigDirPath: userDir, ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("LoadResult() returned error: %v", err)
	}

	if got := strings.Join(res.Files, ","); got != userFile+","+projectFile {
		t.Errorf("Files = %s", got)
	}

	s := res.Settings
	if s.Context != "browser" {
		t.Errorf("Context = %q, want browser", s.Context)
	}
	if s.Format != FormatTOML {
		t.Errorf("Format = %q, want toml", s.Format)
	}
	if len(s.NodePath) != 1 || s.NodePath[0] != "/opt/libs" {
		t.Errorf("NodePath = %v", s.NodePath)
	}
	if s.Watch.Debounce != 2*time.Second {
		t.Errorf("Debounce = %s, want 2s", s.Watch.Debounce)
	}

	// option names keep their case; project entries replace user entries
	if s.Options["useBabelModuleResolver"] != true {
		t.Errorf("options lost camelCase key: %v", s.Options)
	}
	targets, ok := s.Options["targets"].(map[string]any)
	if !ok || targets["node"] != "18" {
		t.Errorf("targets = %v, want project value", s.Options["targets"])
	}
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `context: "browser"
verbose: false
`)
	t.Setenv("TWISTCONFIG_CONTEXT", "worker")
	t.Setenv("TWISTCONFIG_VERBOSE", "true")
	t.Setenv("TWISTCONFIG_WATCH_DEBOUNCE", "1s")

	s, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if s.Context != "worker" {
		t.Errorf("Context = %q, want worker", s.Context)
	}
	if !s.Verbose {
		t.Error("Verbose should come from the environment")
	}
	if s.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %s, want 1s", s.Watch.Debounce)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	userDir := t.TempDir()
	writeSettings(t, userDir, `context: "ignored"`)

	explicit := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, explicit, `root: "@twist/app"`)

	res, err := LoadResult(context.Background(), LoadOptions{SettingsFilePath: explicit, ConfigDirPath: userDir})
	if err != nil {
		t.Fatalf("LoadResult() returned error: %v", err)
	}
	if res.Settings.Root != "@twist/app" {
		t.Errorf("Root = %q", res.Settings.Root)
	}
	if res.Settings.Context != "" {
		t.Errorf("explicit settings file should replace the user file, got context %q", res.Settings.Context)
	}
	if len(res.Files) != 1 || res.Files[0] != explicit {
		t.Errorf("Files = %v", res.Files)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{SettingsFilePath: missing})
	if err == nil {
		t.Fatal("expected error for a missing settings file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %T", err)
	}
	if ae.Issue != issue.FileNotFoundId {
		t.Errorf("Issue = %d, want FileNotFoundId", ae.Issue)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error should contain the path, got: %v", err)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions")
	}
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: `context: "x`},
		{name: "unknown field", content: `colour: "red"`},
		{name: "bad format", content: `format: "xml"`},
		{name: "bad debounce", content: `watch: debounce: "soon"`},
		{name: "empty node path", content: `node_path: [""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeSettings(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if issue.IdOf(err) != issue.SettingsLoadFailedId {
				t.Errorf("IdOf() = %d, want SettingsLoadFailedId", issue.IdOf(err))
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error should name the file, got: %v", err)
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Context = "browser"
	s.NodePath = []string{"/opt/libs"}
	s.Options = map[string]any{"targets": map[string]any{"browsers": "last 2 versions"}, "includeBabelRuntime": true}
	s.Watch.Ignore = []string{"**/dist/**"}

	dir := t.TempDir()
	writeSettings(t, dir, GenerateCUE(s))

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated settings should load: %v\n%s", err, GenerateCUE(s))
	}
	if got.Context != "browser" || got.Options["includeBabelRuntime"] != true {
		t.Errorf("round trip lost values: %+v", got)
	}
	if len(got.Watch.Ignore) != 1 || got.Watch.Ignore[0] != "**/dist/**" {
		t.Errorf("Watch.Ignore = %v", got.Watch.Ignore)
	}
}

func TestCreateDefaultSettings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := CreateDefaultSettings(dir)
	if err != nil {
		t.Fatalf("CreateDefaultSettings() returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if !strings.Contains(string(data), `format: "json"`) {
		t.Errorf("unexpected content:\n%s", data)
	}

	// existing files are left alone
	testutil.MustWriteFile(t, path, `verbose: true`)
	if _, err := CreateDefaultSettings(dir); err != nil {
		t.Fatalf("second call returned error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `verbose: true` {
		t.Errorf("existing settings file was overwritten:\n%s", data)
	}
}
