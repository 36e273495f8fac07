// SPDX-License-Identifier: MPL-2.0

package twistconfig

import (
	"errors"
	"fmt"
)

// ErrUnknownOption is the sentinel error wrapped by UnknownOptionError.
var ErrUnknownOption = errors.New("unknown option")

// UnknownOptionError is returned when an option name is outside the closed
// option schema.
type UnknownOptionError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q (known options: %s)", e.Name, knownOptionsList())
}

// Unwrap returns ErrUnknownOption so callers can use errors.Is.
func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }
