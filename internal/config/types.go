// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// FormatJSON prints merged configuration as indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML prints merged configuration as YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatTOML prints merged configuration as TOML.
	FormatTOML OutputFormat = "toml"

	// DefaultDebounce is the quiet period watch mode waits for before rebuilding.
	DefaultDebounce = 300 * time.Millisecond
)

var (
	// ErrInvalidFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidFormat = errors.New("invalid output format")
	// ErrInvalidDebounce is returned when the watch debounce is negative.
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

type (
	// OutputFormat selects the encoding used by `twistconfig show`.
	OutputFormat string

	// InvalidFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value OutputFormat
	}

	// Settings is the CLI configuration. It never reaches the library packages
	// directly; the CLI turns it into twistconfig options.
	Settings struct {
		// Context is the build context name ("node" when empty).
		Context string `json:"context" mapstructure:"context"`
		// Root is the root library reference. Empty means the project directory.
		Root string `json:"root" mapstructure:"root"`
		// NoRoot disables loading a root library.
		NoRoot bool `json:"no_root" mapstructure:"no_root"`
		// Format is the default output format of `show`.
		Format OutputFormat `json:"format" mapstructure:"format"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// NodePath lists global library directories searched after node_modules.
		NodePath []string `json:"node_path" mapstructure:"node_path"`
		// Options are applied to every build before the root library loads.
		// Keys keep their case; viper never sees them.
		Options map[string]any `json:"options" mapstructure:"-"`
		// Watch configures `twistconfig watch`.
		Watch WatchSettings `json:"watch" mapstructure:"watch"`
	}

	// WatchSettings configures the file watcher.
	WatchSettings struct {
		// Debounce is the quiet period before a rebuild.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists extra doublestar patterns excluded from watching.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// ClearScreen clears the terminal before each rebuild.
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}
)

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Format:   FormatJSON,
		NodePath: []string{},
		Options:  map[string]any{},
		Watch: WatchSettings{
			Debounce: DefaultDebounce,
			Ignore:   []string{},
		},
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidFormat so callers can use errors.Is for programmatic detection.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Validate returns nil if the format is one of the supported encodings.
func (f OutputFormat) Validate() error {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// Validate checks the settings values CUE does not constrain.
func (s *Settings) Validate() error {
	var errs []error
	if err := s.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidDebounce, s.Watch.Debounce))
	}
	return errors.Join(errs...)
}
