// SPDX-License-Identifier: MPL-2.0

package document

import (
	_ "embed"

	"github.com/twist/twistconfig/pkg/cueutil"
)

//go:embed document_schema.cue
var documentSchema []byte

// Validate checks a decoded value tree against the #Document schema.
// Violations are reported as a ConfigParseError naming path.
func Validate(tree any, path string) error {
	if tree == nil {
		return nil
	}
	if err := cueutil.ValidateValue(documentSchema, "#Document", Plain(tree), cueutil.WithFilename(path)); err != nil {
		return &ConfigParseError{Path: path, Cause: err}
	}
	return nil
}

// build validates tree and normalizes it into a Document.
func build(tree any, path string) (*Document, error) {
	if err := Validate(tree, path); err != nil {
		return nil, err
	}
	return Decode(tree, path)
}
