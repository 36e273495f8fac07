// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// CUEPath is a JSON-path style location inside a validated value, e.g.
// "components[0].module".
type CUEPath string

func (p CUEPath) String() string { return string(p) }

// ValidationError is one CUE validation failure located in a file.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// CUEPath locates the invalid value, e.g. "decorators.Store.inherits".
	CUEPath CUEPath

	// Message is the CUE error message with any redundant path prefix removed.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Errors splits err into one ValidationError per CUE error. A non-CUE error
// yields a single entry without a path; nil yields nil.
func Errors(err error, filePath string) []*ValidationError {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return []*ValidationError{{FilePath: filePath, Message: err.Error()}}
	}

	out := make([]*ValidationError, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}
		out = append(out, &ValidationError{FilePath: filePath, CUEPath: CUEPath(pathStr), Message: msg})
	}
	return out
}

// FormatError formats a CUE error with JSON path prefixes:
//
//	.twistrc: components.button.export: conflicting values 3 and string
//	twistconfig.cue: watch.debounce: invalid value "soon"
//
// Several errors are listed one per line under a "validation failed" header.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	if len(errors.Errors(err)) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	verrs := Errors(err, filePath)
	lines := make([]string, 0, len(verrs))
	for _, v := range verrs {
		if v.CUEPath != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", v.CUEPath, v.Message))
		} else {
			lines = append(lines, v.Message)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath turns CUE's flat path (["babelPlugins", "0", "1"]) into
// JSON-path notation ("babelPlugins[0][1]").
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
