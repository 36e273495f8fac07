// SPDX-License-Identifier: MPL-2.0

package library

import (
	"reflect"
	"strings"
)

// RootName is the name reported by the sentinel root record.
const RootName = "(root)"

type (
	// Options is the options bag a library is loaded with. It is passed to
	// dynamic configuration functions and takes part in load deduplication.
	Options map[string]any

	// Record identifies one load of a library. Records are immutable once
	// built; the parent chain ends at the sentinel returned by Root.
	Record struct {
		path    string
		name    string
		version string
		options Options
		parent  *Record
	}
)

var rootRecord = &Record{name: RootName}

// Root returns the sentinel record standing for "no library is loading".
func Root() *Record { return rootRecord }

// NewRecord builds the record for the library rooted at path. The manifest is
// read through src; a missing or malformed manifest is a ManifestParseError.
// A nil parent is replaced by the sentinel.
func NewRecord(path string, options Options, parent *Record, src ManifestSource) (*Record, error) {
	m, err := src.ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		parent = rootRecord
	}
	return &Record{
		path:    path,
		name:    m.Name,
		version: m.Version,
		options: cloneOptions(options),
		parent:  parent,
	}, nil
}

// Path returns the library root directory; empty for the sentinel.
func (r *Record) Path() string { return r.path }

// Name returns the manifest name.
func (r *Record) Name() string { return r.name }

// Version returns the manifest version.
func (r *Record) Version() string { return r.version }

// Parent returns the record that requested this load, or nil for the sentinel.
func (r *Record) Parent() *Record { return r.parent }

// IsRoot reports whether r is the sentinel.
func (r *Record) IsRoot() bool { return r == rootRecord }

// Options returns a copy of the options the library was loaded with.
func (r *Record) Options() Options { return cloneOptions(r.options) }

// String returns "name version".
func (r *Record) String() string {
	return strings.TrimSpace(r.name + " " + r.version)
}

// LoadChainTrace renders the chain of loads that led to r, most specific
// first:
//
//	@x/y 1.0.0
//	  └─ loaded by app 0.1.0
//	    └─ loaded by (root)
func (r *Record) LoadChainTrace() string {
	var sb strings.Builder
	sb.WriteString(r.String())
	indent := "  "
	for p := r.parent; p != nil; p = p.parent {
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString("└─ loaded by ")
		sb.WriteString(p.String())
		indent += "  "
	}
	return sb.String()
}

// Matches reports whether r was loaded from path with options structurally
// equal to options.
func (r *Record) Matches(path string, options Options) bool {
	return r.path == path && EqualOptions(r.options, options)
}

// EqualOptions compares two option bags structurally. Nil and empty bags are
// equal, and numbers compare by value regardless of their Go type.
func EqualOptions(a, b Options) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(normalizeValue(map[string]any(a)), normalizeValue(map[string]any(b)))
}

// cloneOptions copies o deeply so later changes to nested maps or slices by
// the caller never reach a registered record.
func cloneOptions(o Options) Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Options:
		return cloneOptions(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			setCloned(out.Index(i), rv.Index(i))
		}
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			item := reflect.New(rv.Type().Elem()).Elem()
			setCloned(item, iter.Value())
			out.SetMapIndex(iter.Key(), item)
		}
		return out.Interface()
	default:
		return v
	}
}

// setCloned stores a deep copy of src into dst, which has src's type.
func setCloned(dst, src reflect.Value) {
	if !src.IsValid() || (src.Kind() == reflect.Interface && src.IsNil()) {
		return
	}
	cloned := reflect.ValueOf(cloneValue(src.Interface()))
	if cloned.IsValid() && cloned.Type().AssignableTo(dst.Type()) {
		dst.Set(cloned)
		return
	}
	dst.Set(src)
}

// normalizeValue rewrites numbers to float64 and typed maps/slices to their
// generic form so DeepEqual compares values rather than Go types.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Options:
		return normalizeValue(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

// EqualValues compares two decoded values the same way EqualOptions compares
// option bags.
func EqualValues(a, b any) bool {
	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}
