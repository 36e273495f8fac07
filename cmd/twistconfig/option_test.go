// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twist/twistconfig/internal/issue"
	"github.com/twist/twistconfig/internal/testutil/libtest"
	"github.com/twist/twistconfig/pkg/twistconfig"
)

func TestOptionGet(t *testing.T) {
	t.Parallel()
	appDir, _ := newAppProject(t)

	res := runCLI(t, context.Background(), nil, "option", "get", "regenerator", "-C", appDir)
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "true\n", res.stdout)

	res = runCLI(t, context.Background(), nil, "option", "get", "targets", "-C", appDir, "-c", "browser")
	require.NoError(t, res.err, res.stderr)
	assert.JSONEq(t, `{"node": "current"}`, res.stdout)
}

func TestOptionGet_ContextOverride(t *testing.T) {
	t.Parallel()
	appDir := libtest.NewProject(t, "app", "0.1.0", libtest.WithTwistrc(`{
		"context": {"browser": {"options": {"targets": {"browsers": "last 2 versions"}}}}
	}`))

	res := runCLI(t, context.Background(), nil, "option", "get", "targets", "-C", appDir, "-c", "browser")
	require.NoError(t, res.err, res.stderr)
	assert.JSONEq(t, `{"browsers": "last 2 versions"}`, res.stdout)

	res = runCLI(t, context.Background(), nil, "option", "get", "targets", "-C", appDir)
	require.NoError(t, res.err, res.stderr)
	assert.JSONEq(t, `{"node": "current"}`, res.stdout)
}

func TestOptionGet_Unknown(t *testing.T) {
	t.Parallel()
	res := runCLI(t, context.Background(), nil, "option", "get", "bogus", "-C", t.TempDir(), "--no-root")
	require.Error(t, res.err)
	assert.Equal(t, issue.UnknownOptionId, issue.IdOf(res.err))
	assert.Contains(t, res.stderr, "bogus")
}

func TestOptionList(t *testing.T) {
	t.Parallel()
	res := runCLI(t, context.Background(), nil, "option", "list", "-C", t.TempDir())
	require.NoError(t, res.err, res.stderr)
	for _, name := range twistconfig.OptionNames() {
		assert.Contains(t, res.stdout, name)
	}
	assert.Contains(t, res.stdout, `{"node":"current"}`)
}
