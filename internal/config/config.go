// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/twist/twistconfig/internal/issue"
	"github.com/twist/twistconfig/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "twistconfig"
	// SettingsFileName is the name of the settings file (without extension).
	SettingsFileName = "twistconfig"
	// SettingsFileExt is the settings file extension.
	SettingsFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. TWISTCONFIG_CONTEXT.
	EnvPrefix = "TWISTCONFIG"

	optionsKey = "options"
)

//go:embed settings_schema.cue
var settingsSchema []byte

// ConfigDir returns the per-user twistconfig directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// SettingsFile returns the settings file name inside dir.
func SettingsFile(dir string) string {
	return filepath.Join(dir, SettingsFileName+"."+SettingsFileExt)
}

// loadWithOptions layers defaults, the user settings file, the project
// settings file and TWISTCONFIG_* environment variables, in that order. An
// explicit SettingsFilePath replaces both files. It returns the files read.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Settings, []string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("context", defaults.Context)
	v.SetDefault("root", defaults.Root)
	v.SetDefault("no_root", defaults.NoRoot)
	v.SetDefault("format", string(defaults.Format))
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("node_path", defaults.NodePath)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("watch.clear_screen", defaults.Watch.ClearScreen)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	options := map[string]any{}
	var loaded []string

	load := func(path string) error {
		fileOptions, err := loadCUEIntoViper(v, path)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(path).
				WithIssue(issue.SettingsLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the settings match the schema shown by 'twistconfig settings schema'").
				Wrap(err).
				BuildError()
		}
		for k, val := range fileOptions {
			options[k] = val
		}
		loaded = append(loaded, path)
		return nil
	}

	if opts.SettingsFilePath != "" {
		if !fileExists(opts.SettingsFilePath) {
			return nil, nil, issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(opts.SettingsFilePath).
				WithIssue(issue.FileNotFoundId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'twistconfig settings show' to see the default settings").
				Wrap(fmt.Errorf("settings file not found: %s", opts.SettingsFilePath)).
				BuildError()
		}
		if err := load(opts.SettingsFilePath); err != nil {
			return nil, nil, err
		}
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, nil, err
		}
		candidates := []string{SettingsFile(cfgDir)}
		if opts.ProjectDir != "" {
			candidates = append(candidates, SettingsFile(opts.ProjectDir))
		}
		for _, path := range candidates {
			if !fileExists(path) {
				continue
			}
			if err := load(path); err != nil {
				return nil, nil, err
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("decode settings").
			WithIssue(issue.SettingsLoadFailedId).
			WithSuggestion("Durations use Go syntax, e.g. \"300ms\" or \"2s\"").
			Wrap(err).
			BuildError()
	}
	s.Options = options

	if err := s.Validate(); err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("validate settings").
			WithIssue(issue.SettingsLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &s, loaded, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against #Settings and merges
// its contents into v. The options struct is returned separately instead of
// being merged: viper lowercases keys and option names are camelCase.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settingsMap, err := cueutil.ParseAndDecode[map[string]any](settingsSchema, data, "#Settings",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}

	var options map[string]any
	if raw, ok := settingsMap[optionsKey]; ok {
		options, _ = raw.(map[string]any)
		delete(settingsMap, optionsKey)
	}

	if err := v.MergeConfigMap(settingsMap); err != nil {
		return nil, fmt.Errorf("failed to merge settings: %w", err)
	}

	return options, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// SchemaSource returns the embedded settings schema.
func SchemaSource() string { return string(settingsSchema) }

// CreateDefaultSettings writes a default settings file into dir unless one
// already exists, and returns its path.
func CreateDefaultSettings(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create settings directory: %w", err)
	}

	path := SettingsFile(dir)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultSettings())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write settings file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders s as a settings file.
func GenerateCUE(s *Settings) string {
	var sb strings.Builder

	sb.WriteString("// twistconfig settings\n\n")

	if s.Context != "" {
		fmt.Fprintf(&sb, "context: %q\n", s.Context)
	}
	if s.Root != "" {
		fmt.Fprintf(&sb, "root: %q\n", s.Root)
	}
	if s.NoRoot {
		sb.WriteString("no_root: true\n")
	}
	fmt.Fprintf(&sb, "format: %q\n", s.Format)
	fmt.Fprintf(&sb, "verbose: %v\n", s.Verbose)

	if len(s.NodePath) > 0 {
		sb.WriteString("\nnode_path: [\n")
		for _, dir := range s.NodePath {
			fmt.Fprintf(&sb, "\t%q,\n", dir)
		}
		sb.WriteString("]\n")
	}

	if len(s.Options) > 0 {
		sb.WriteString("\noptions: {\n")
		keys := make([]string, 0, len(s.Options))
		for k := range s.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\t%q: %s\n", k, cueLiteral(s.Options[k]))
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", s.Watch.Debounce.String())
	if len(s.Watch.Ignore) > 0 {
		sb.WriteString("\tignore: [\n")
		for _, pattern := range s.Watch.Ignore {
			fmt.Fprintf(&sb, "\t\t%q,\n", pattern)
		}
		sb.WriteString("\t]\n")
	}
	fmt.Fprintf(&sb, "\tclear_screen: %v\n", s.Watch.ClearScreen)
	sb.WriteString("}\n")

	return sb.String()
}

// cueLiteral renders a decoded option value. JSON is valid CUE.
func cueLiteral(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
	return string(data)
}
