// SPDX-License-Identifier: MPL-2.0

package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ManifestFileName is the name of the manifest every library root contains.
const ManifestFileName = "package.json"

type (
	// Manifest holds the fields of package.json the loader consumes.
	Manifest struct {
		Name    string
		Version string
	}

	// ManifestSource reads the manifest of a library directory.
	ManifestSource interface {
		ReadManifest(dir string) (Manifest, error)
	}
)

// ParseManifest extracts name and version from package.json content.
func ParseManifest(data []byte, path string) (Manifest, error) {
	if !gjson.ValidBytes(data) {
		return Manifest{}, &ManifestParseError{Path: path, Cause: errors.New("malformed JSON")}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Manifest{}, &ManifestParseError{Path: path, Cause: errors.New("manifest must be a JSON object")}
	}

	name := doc.Get("name")
	if name.Exists() && name.Type != gjson.String {
		return Manifest{}, &ManifestParseError{Path: path, Cause: fmt.Errorf("name must be a string, got %s", name.Type)}
	}
	ver := doc.Get("version")
	if ver.Exists() && ver.Type != gjson.String {
		return Manifest{}, &ManifestParseError{Path: path, Cause: fmt.Errorf("version must be a string, got %s", ver.Type)}
	}

	return Manifest{Name: name.String(), Version: ver.String()}, nil
}

// readManifestFile reads and parses dir/package.json without caching.
func readManifestFile(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, &ManifestParseError{Path: path, Cause: err}
	}
	return ParseManifest(data, path)
}
