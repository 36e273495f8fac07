// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twist/twistconfig/internal/config"
	"github.com/twist/twistconfig/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "dev"
	assert.Equal(t, "dev (built from source)", getVersionString())

	Version, Commit, BuildDate = "1.2.3", "abc123", "2024-01-01"
	assert.Equal(t, "1.2.3 (commit: abc123, built: 2024-01-01)", getVersionString())
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()
	app := NewApp(Dependencies{})
	assert.NotNil(t, app.Settings)
	assert.Equal(t, os.Stdout, app.stdout)
	assert.Equal(t, os.Stderr, app.stderr)
}

func TestRootCommand_FlagsOverrideSettings(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := config.DefaultSettings()
	s.Context = "browser"
	s.Root = "./lib"

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Settings: staticSettings{settings: s}, Stdout: &stdout, Stderr: &stderr})
	root := newRootCommand(app)
	root.SetArgs([]string{"-C", dir, "-c", "node", "--no-root", "settings", "schema"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Equal(t, "node", app.settings.Context)
	assert.True(t, app.settings.NoRoot)
	assert.Equal(t, "./lib", app.settings.Root, "unchanged flags keep settings values")
	assert.Equal(t, "browser", s.Context, "provider settings are not mutated")
}

func TestRootCommand_SettingsLoadFailure(t *testing.T) {
	t.Parallel()
	loadErr := issue.NewErrorContext().
		WithOperation("load settings").
		WithIssue(issue.SettingsLoadFailedId).
		Wrap(errors.New("bad cue")).
		BuildError()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Settings: staticSettings{err: loadErr}, Stdout: &stdout, Stderr: &stderr})
	root := newRootCommand(app)
	root.SetArgs([]string{"settings", "schema"})
	err := root.ExecuteContext(context.Background())

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, issue.SettingsLoadFailedId, issue.IdOf(err))
	assert.Contains(t, stderr.String(), "bad cue")
	assert.Empty(t, stdout.String())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	newLogger(&quiet, false).Debug("hidden")
	newLogger(&quiet, false).Info("shown")
	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "shown")
	assert.Contains(t, quiet.String(), "twistconfig")

	var loud bytes.Buffer
	newLogger(&loud, true).Debug("details", "library", "@twist/core")
	assert.Contains(t, loud.String(), "details")
	assert.Contains(t, loud.String(), "@twist/core")
}
