// SPDX-License-Identifier: MPL-2.0

package libtest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/twist/twistconfig/internal/testutil"
)

const (
	// StaticConfigName mirrors document.StaticFileName without importing it.
	StaticConfigName = ".twistrc"
	// DynamicConfigName mirrors document.DynamicFileName without importing it.
	DynamicConfigName = "twist.config.lua"
)

type (
	// Library describes the files written for one fixture library.
	Library struct {
		Name        string
		Version     string
		Twistrc     string
		LuaConfig   string
		RawManifest string
	}

	// Option configures a fixture library.
	Option func(*Library)
)

// WithTwistrc writes content as the library's static configuration.
func WithTwistrc(content string) Option {
	return func(l *Library) { l.Twistrc = content }
}

// WithLuaConfig writes content as the library's dynamic configuration.
func WithLuaConfig(content string) Option {
	return func(l *Library) { l.LuaConfig = content }
}

// WithRawManifest replaces the generated package.json with content.
func WithRawManifest(content string) Option {
	return func(l *Library) { l.RawManifest = content }
}

// Write creates the library files in dir and returns dir.
func Write(t testing.TB, dir, name, version string, opts ...Option) string {
	t.Helper()
	lib := Library{Name: name, Version: version}
	for _, opt := range opts {
		opt(&lib)
	}

	testutil.MustMkdirAll(t, dir, 0o755)

	manifest := lib.RawManifest
	if manifest == "" {
		manifest = fmt.Sprintf("{%q: %q, %q: %q}", "name", lib.Name, "version", lib.Version)
	}
	testutil.MustWriteFile(t, filepath.Join(dir, "package.json"), manifest)

	if lib.Twistrc != "" {
		testutil.MustWriteFile(t, filepath.Join(dir, StaticConfigName), lib.Twistrc)
	}
	if lib.LuaConfig != "" {
		testutil.MustWriteFile(t, filepath.Join(dir, DynamicConfigName), lib.LuaConfig)
	}
	return dir
}

// Install writes the library under projectDir/node_modules/<name> and returns
// its root directory.
func Install(t testing.TB, projectDir, name, version string, opts ...Option) string {
	t.Helper()
	dir := filepath.Join(projectDir, "node_modules", filepath.FromSlash(name))
	return Write(t, dir, name, version, opts...)
}

// NewProject writes a library into a fresh temporary directory and returns
// the directory. The path is resolved through EvalSymlinks so it compares
// equal to paths produced by the resolver on systems with symlinked temp dirs.
func NewProject(t testing.TB, name, version string, opts ...Option) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return Write(t, dir, name, version, opts...)
}
