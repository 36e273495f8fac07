// SPDX-License-Identifier: MPL-2.0

package library

import (
	"errors"
	"fmt"
)

var (
	// ErrResolution is the sentinel error wrapped by ResolutionError.
	ErrResolution = errors.New("library resolution failed")
	// ErrManifestParse is the sentinel error wrapped by ManifestParseError.
	ErrManifestParse = errors.New("invalid library manifest")
	// ErrVersionConflict is the sentinel error wrapped by VersionConflictError.
	ErrVersionConflict = errors.New("library version conflict")
)

type (
	// ResolutionError is returned when a library reference cannot be mapped to a
	// directory containing a package.json manifest.
	ResolutionError struct {
		// Library is the reference as written by the caller.
		Library string
		// FromDir is the directory the lookup started from.
		FromDir string
	}

	// ManifestParseError is returned when the package.json of a resolved library
	// is missing, unreadable or not a JSON object.
	ManifestParseError struct {
		Path  string
		Cause error
	}

	// VersionConflictError is returned when two loads share a library name but
	// report different versions. Both records are kept so the load chains that
	// led to each version can be shown.
	VersionConflictError struct {
		// Library is the record whose load failed.
		Library *Record
		// Existing is the previously loaded record with the same name.
		Existing *Record
	}
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve library %q; it may not be installed", e.Library)
}

// Unwrap returns ErrResolution so callers can use errors.Is.
func (e *ResolutionError) Unwrap() error { return ErrResolution }

// Error implements the error interface.
func (e *ManifestParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("invalid manifest %s", e.Path)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *ManifestParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrManifestParse}
	}
	return []error{ErrManifestParse, e.Cause}
}

// Error implements the error interface. The message embeds the load chain of
// the failing record first, then the chain of the record it conflicts with.
func (e *VersionConflictError) Error() string {
	return fmt.Sprintf(
		"library %q was loaded with conflicting versions %q and %q\n\n%s\n\nconflicts with\n\n%s",
		e.Library.Name(), e.Library.Version(), e.Existing.Version(),
		e.Library.LoadChainTrace(), e.Existing.LoadChainTrace(),
	)
}

// Unwrap returns ErrVersionConflict so callers can use errors.Is.
func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// Newest returns whichever of the two conflicting records reports the higher
// version, falling back to the failing record when versions are not comparable.
func (e *VersionConflictError) Newest() *Record {
	if CompareVersions(e.Existing.Version(), e.Library.Version()) > 0 {
		return e.Existing
	}
	return e.Library
}
