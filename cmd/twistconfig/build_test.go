// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twist/twistconfig/internal/config"
	"github.com/twist/twistconfig/pkg/twistconfig"
)

func TestParseSetFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		wantName  string
		wantValue any
		wantErr   bool
	}{
		{in: "regenerator=true", wantName: "regenerator", wantValue: true},
		{in: "count=3", wantName: "count", wantValue: float64(3)},
		{in: `targets={"node":"14"}`, wantName: "targets", wantValue: map[string]any{"node": "14"}},
		{in: "name=plain text", wantName: "name", wantValue: "plain text"},
		{in: `name="quoted"`, wantName: "name", wantValue: "quoted"},
		{in: "empty=", wantName: "empty", wantValue: ""},
		{in: " spaced =null", wantName: "spaced", wantValue: nil},
		{in: "novalue", wantErr: true},
		{in: "=value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			name, value, err := parseSetFlag(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	t.Run("set overrides settings", func(t *testing.T) {
		t.Parallel()
		s := config.DefaultSettings()
		s.Options = map[string]any{"polyfill": false, "regenerator": true}

		got, err := buildOptions(buildRequest{settings: s, set: []string{"polyfill=true"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"polyfill": true, "regenerator": true}, got)
		assert.Equal(t, false, s.Options["polyfill"], "settings options are not mutated")
	})

	t.Run("root", func(t *testing.T) {
		t.Parallel()
		s := config.DefaultSettings()
		s.Root = "./packages/app"

		got, err := buildOptions(buildRequest{settings: s})
		require.NoError(t, err)
		assert.Equal(t, "./packages/app", got[twistconfig.RootOption])
	})

	t.Run("no root wins", func(t *testing.T) {
		t.Parallel()
		s := config.DefaultSettings()
		s.Root = "./packages/app"
		s.NoRoot = true

		got, err := buildOptions(buildRequest{settings: s})
		require.NoError(t, err)
		v, ok := got[twistconfig.RootOption]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("default root is left to Create", func(t *testing.T) {
		t.Parallel()
		got, err := buildOptions(buildRequest{settings: config.DefaultSettings()})
		require.NoError(t, err)
		assert.NotContains(t, got, twistconfig.RootOption)
	})

	t.Run("bad set flag", func(t *testing.T) {
		t.Parallel()
		_, err := buildOptions(buildRequest{settings: config.DefaultSettings(), set: []string{"oops"}})
		require.Error(t, err)
	})
}
