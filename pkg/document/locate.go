// SPDX-License-Identifier: MPL-2.0

package document

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/twist/twistconfig/pkg/library"
)

// Locate finds and parses the configuration document of lib. The static file
// takes precedence over the dynamic one; options are handed to a dynamic
// script that returns a function.
//
// found is false only when neither file exists, which is not an error.
func Locate(ctx context.Context, lib *library.Record, options library.Options) (doc *Document, found bool, err error) {
	staticPath := filepath.Join(lib.Path(), StaticFileName)
	data, err := os.ReadFile(staticPath)
	switch {
	case err == nil:
		doc, err = ParseStatic(data, staticPath)
		return doc, true, err
	case !errors.Is(err, fs.ErrNotExist):
		return nil, true, &ConfigParseError{Path: staticPath, Cause: err}
	}

	dynamicPath := filepath.Join(lib.Path(), DynamicFileName)
	if _, err := os.Stat(dynamicPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, &ConfigParseError{Path: dynamicPath, Cause: err}
	}

	doc, err = EvalDynamic(ctx, dynamicPath, options, LibraryInfo{
		Name:    lib.Name(),
		Version: lib.Version(),
		Path:    lib.Path(),
	})
	return doc, true, err
}
