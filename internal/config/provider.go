// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit settings loading inputs.
type LoadOptions struct {
	// SettingsFilePath forces loading from a specific settings file when set.
	SettingsFilePath string
	// ConfigDirPath overrides the per-user config directory lookup when set.
	ConfigDirPath string
	// ProjectDir is searched for a project settings file layered over the
	// per-user one.
	ProjectDir string
}

// Provider loads settings from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Settings, error)
}

// Result is a loaded Settings value together with the files it came from.
type Result struct {
	Settings *Settings
	Files    []string
}

type fileProvider struct{}

// NewProvider creates a settings provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads settings from the requested sources.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	s, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadResult is Load with the list of files that were read.
func LoadResult(ctx context.Context, opts LoadOptions) (Result, error) {
	s, files, err := loadWithOptions(ctx, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Settings: s, Files: files}, nil
}
