// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/twist/twistconfig/internal/config"
	"github.com/twist/twistconfig/internal/issue"
	"github.com/twist/twistconfig/internal/testutil/libtest"
)

// newAppProject writes an app library that loads @twist/core and sets one
// option, and returns both directories.
func newAppProject(t *testing.T) (appDir, coreDir string) {
	t.Helper()
	appDir = libtest.NewProject(t, "app", "0.1.0", libtest.WithTwistrc(`{
		// comments are accepted
		"libraries": ["@twist/core"],
		"options": {"regenerator": true},
	}`))
	coreDir = libtest.Install(t, appDir, "@twist/core", "1.0.0", libtest.WithTwistrc(`{
		"decorators": {"Bind": {"module": "@twist/core/decorators", "export": "Bind"}}
	}`))
	return appDir, coreDir
}

func TestShowCommand_JSON(t *testing.T) {
	t.Parallel()
	appDir, coreDir := newAppProject(t)

	res := runCLI(t, context.Background(), nil, "show", "-C", appDir)
	require.NoError(t, res.err, res.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, true, got["regenerator"])
	assert.Equal(t, true, got["polyfill"], "defaults survive")

	aliases, ok := got["aliases"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, coreDir, aliases["@twist/core"])
	assert.Equal(t, appDir, aliases["app"])

	autoImport, ok := got["autoImport"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, autoImport, "Bind")
}

func TestShowCommand_Formats(t *testing.T) {
	t.Parallel()
	appDir, _ := newAppProject(t)

	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{format: "yaml", decode: yaml.Unmarshal},
		{format: "toml", decode: toml.Unmarshal},
		{format: "json", decode: json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			res := runCLI(t, context.Background(), nil, "show", "-C", appDir, "-f", tt.format)
			require.NoError(t, res.err, res.stderr)

			var got map[string]any
			require.NoError(t, tt.decode([]byte(res.stdout), &got))
			assert.Equal(t, true, got["regenerator"])
		})
	}
}

func TestShowCommand_FormatFromSettings(t *testing.T) {
	t.Parallel()
	appDir, _ := newAppProject(t)
	s := config.DefaultSettings()
	s.Format = config.FormatYAML

	res := runCLI(t, context.Background(), s, "show", "-C", appDir)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "regenerator: true")
}

func TestShowCommand_InvalidFormat(t *testing.T) {
	t.Parallel()
	res := runCLI(t, context.Background(), nil, "show", "-C", t.TempDir(), "-f", "xml")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, config.ErrInvalidFormat)
	assert.Contains(t, res.stderr, `"xml"`)
}

func TestShowCommand_SetAndSettingsOptions(t *testing.T) {
	t.Parallel()
	appDir, _ := newAppProject(t)
	s := config.DefaultSettings()
	s.Options = map[string]any{"jsxSourceLines": true, "regenerator": false}

	res := runCLI(t, context.Background(), s, "show", "-C", appDir,
		"--set", `targets={"browsers": "last 2 versions"}`,
		"--set", "polyfill=false")
	require.NoError(t, res.err, res.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, true, got["jsxSourceLines"])
	assert.Equal(t, false, got["polyfill"])
	assert.Equal(t, map[string]any{"browsers": "last 2 versions"}, got["targets"])
	assert.Equal(t, true, got["regenerator"], "library options load after settings options")
}

func TestShowCommand_Transformer(t *testing.T) {
	t.Parallel()
	appDir, _ := newAppProject(t)

	res := runCLI(t, context.Background(), nil, "show", "-C", appDir, "--transformer")
	require.NoError(t, res.err, res.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Contains(t, got, "presets")
	assert.Contains(t, got, "plugins")
	assert.NotContains(t, got, "aliases")
}

func TestShowCommand_NoRoot(t *testing.T) {
	t.Parallel()
	appDir, _ := newAppProject(t)

	res := runCLI(t, context.Background(), nil, "show", "-C", appDir, "--no-root")
	require.NoError(t, res.err, res.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, false, got["regenerator"])
	assert.Empty(t, got["autoImport"])
}

func TestShowCommand_MissingLibrary(t *testing.T) {
	t.Parallel()
	appDir := libtest.NewProject(t, "app", "0.1.0", libtest.WithTwistrc(`{"libraries": ["@missing/lib"]}`))

	res := runCLI(t, context.Background(), nil, "show", "-C", appDir)
	require.Error(t, res.err)
	assert.Equal(t, issue.LibraryNotFoundId, issue.IdOf(res.err))
	assert.Contains(t, res.stderr, "@missing/lib")
	assert.Contains(t, res.stderr, "npm install @missing/lib")
	assert.Contains(t, res.stderr, "--verbose")
	assert.Empty(t, res.stdout)
}

func TestShowCommand_VersionConflict(t *testing.T) {
	t.Parallel()
	appDir := libtest.NewProject(t, "app", "0.1.0", libtest.WithTwistrc(`{"libraries": ["a", "b"]}`))
	aDir := libtest.Install(t, appDir, "a", "1.0.0", libtest.WithTwistrc(`{"libraries": ["dup"]}`))
	bDir := libtest.Install(t, appDir, "b", "1.0.0", libtest.WithTwistrc(`{"libraries": ["dup"]}`))
	libtest.Install(t, aDir, "dup", "1.0.0")
	libtest.Install(t, bDir, "dup", "2.0.0")

	res := runCLI(t, context.Background(), nil, "show", "-C", appDir)
	require.Error(t, res.err)
	assert.Equal(t, issue.VersionConflictId, issue.IdOf(res.err))
	assert.Contains(t, res.stderr, "dup 2.0.0")
	assert.Contains(t, res.stderr, "loaded by b 1.0.0")
}
