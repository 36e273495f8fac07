// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"

	"github.com/twist/twistconfig/pkg/cueutil"
)

// StaticFileName is the static configuration file looked up in a library root.
const StaticFileName = ".twistrc"

// ParseStatic parses .twistrc content. Comments and trailing commas are
// accepted; anything else that is not valid JSON is a ConfigParseError naming
// path.
func ParseStatic(data []byte, path string) (*Document, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &ConfigParseError{Path: path, Cause: err}
	}

	v, err := hujson.Parse(data)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Cause: err}
	}
	v.Standardize()
	std := v.Pack()

	if !gjson.ValidBytes(std) {
		return nil, &ConfigParseError{Path: path, Cause: errors.New("malformed JSON")}
	}
	return build(fromJSON(gjson.ParseBytes(std)), path)
}

// fromJSON converts a gjson result into the neutral value tree, keeping
// object key order.
func fromJSON(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		out := []any{}
		r.ForEach(func(_, item gjson.Result) bool {
			out = append(out, fromJSON(item))
			return true
		})
		return out
	}

	obj := Object{}
	r.ForEach(func(key, item gjson.Result) bool {
		obj = obj.set(key.Str, fromJSON(item))
		return true
	})
	return obj
}
