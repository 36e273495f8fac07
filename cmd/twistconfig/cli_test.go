// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/twist/twistconfig/internal/config"
)

// staticSettings serves a copy of fixed settings.
type staticSettings struct {
	settings *config.Settings
	err      error
}

func (p staticSettings) Load(context.Context, config.LoadOptions) (*config.Settings, error) {
	if p.err != nil {
		return nil, p.err
	}
	s := config.DefaultSettings()
	if p.settings != nil {
		copied := *p.settings
		s = &copied
	}
	return s, nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree with settings fixed to s (defaults when nil).
func runCLI(t *testing.T, ctx context.Context, s *config.Settings, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Settings: staticSettings{settings: s},
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(ctx)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
