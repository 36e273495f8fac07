// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"fmt"
)

// ErrConfigParse is the sentinel error wrapped by ConfigParseError.
var ErrConfigParse = errors.New("invalid configuration document")

// ConfigParseError is returned when a configuration file exists but cannot be
// turned into a Document.
type ConfigParseError struct {
	// Path is the exact file that failed.
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ConfigParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to parse configuration %s", e.Path)
	}
	return fmt.Sprintf("failed to parse configuration %s: %v", e.Path, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *ConfigParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConfigParse}
	}
	return []error{ErrConfigParse, e.Cause}
}

func parseError(path string, format string, args ...any) *ConfigParseError {
	return &ConfigParseError{Path: path, Cause: fmt.Errorf(format, args...)}
}
