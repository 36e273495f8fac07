// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"
	"strconv"
)

const (
	keyLibraries    = "libraries"
	keyDecorators   = "decorators"
	keyComponents   = "components"
	keyBabelPlugins = "babelPlugins"
	keyOptions      = "options"
	keyContext      = "context"
)

// Decode normalizes a decoded value tree into a Document. Mapping and
// sequence forms of each section become the same ordered slice; null and
// empty sequence entries are skipped. Unknown top-level keys are ignored.
//
// source names the file in errors.
func Decode(tree any, source string) (*Document, error) {
	d := decoder{source: source}
	return d.document(tree, "")
}

type decoder struct {
	source string
}

func (d *decoder) fail(at, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if at != "" {
		msg = at + ": " + msg
	}
	return parseError(d.source, "%s", msg)
}

func (d *decoder) document(v any, at string) (*Document, error) {
	doc := &Document{Source: d.source}
	if v == nil {
		return doc, nil
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, d.fail(at, "document must be an object, got %s", kindOf(v))
	}

	for _, m := range obj {
		p := join(at, m.Key)
		var err error
		switch m.Key {
		case keyLibraries:
			doc.Libraries, err = d.libraries(m.Value, p)
		case keyDecorators:
			doc.Decorators, err = d.declarations(m.Value, p, true)
		case keyComponents:
			doc.Components, err = d.declarations(m.Value, p, false)
		case keyBabelPlugins:
			doc.BabelPlugins, err = d.plugins(m.Value, p)
		case keyOptions:
			doc.Options, err = d.options(m.Value, p)
		case keyContext:
			doc.Context, err = d.contexts(m.Value, p)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// pairs flattens the mapping form ({name: value}) and the sequence form
// ([name] / [[name, value]]) into one ordered list.
func (d *decoder) pairs(v any, at string) ([]Member, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Object:
		return val, nil
	case []any:
		out := make([]Member, 0, len(val))
		for i, item := range val {
			p := index(at, i)
			switch entry := item.(type) {
			case nil:
				continue
			case string:
				if entry == "" {
					continue
				}
				out = append(out, Member{Key: entry})
			case []any:
				if len(entry) == 0 {
					continue
				}
				if len(entry) > 2 {
					return nil, d.fail(p, "expected [name] or [name, value], got %d elements", len(entry))
				}
				name, ok := entry[0].(string)
				if !ok {
					return nil, d.fail(index(p, 0), "name must be a string, got %s", kindOf(entry[0]))
				}
				m := Member{Key: name}
				if len(entry) == 2 {
					m.Value = entry[1]
				}
				out = append(out, m)
			default:
				return nil, d.fail(p, "expected a name or [name, value], got %s", kindOf(item))
			}
		}
		return out, nil
	default:
		return nil, d.fail(at, "expected an object or an array, got %s", kindOf(v))
	}
}

func (d *decoder) libraries(v any, at string) ([]LibraryEntry, error) {
	pairs, err := d.pairs(v, at)
	if err != nil {
		return nil, err
	}
	out := make([]LibraryEntry, 0, len(pairs))
	for _, m := range pairs {
		entry := LibraryEntry{Name: m.Key}
		switch opts := m.Value.(type) {
		case nil:
		case bool:
			if !opts {
				continue
			}
		case Object:
			entry.Options, _ = Plain(opts).(map[string]any)
		default:
			return nil, d.fail(join(at, m.Key), "library options must be an object, got %s", kindOf(m.Value))
		}
		out = append(out, entry)
	}
	return out, nil
}

func (d *decoder) declarations(v any, at string, withInherits bool) ([]DeclarationEntry, error) {
	pairs, err := d.pairs(v, at)
	if err != nil {
		return nil, err
	}
	out := make([]DeclarationEntry, 0, len(pairs))
	for _, m := range pairs {
		p := join(at, m.Key)
		var decl Declaration
		switch val := m.Value.(type) {
		case nil:
		case bool:
			// false disables the entry, true takes every default
			if !val {
				continue
			}
		case Object:
			decl, err = d.declaration(val, p, withInherits)
			if err != nil {
				return nil, err
			}
		default:
			return nil, d.fail(p, "declaration must be an object, got %s", kindOf(m.Value))
		}
		out = append(out, DeclarationEntry{Name: m.Key, Declaration: decl})
	}
	return out, nil
}

func (d *decoder) declaration(obj Object, at string, withInherits bool) (Declaration, error) {
	var decl Declaration
	for _, m := range obj {
		p := join(at, m.Key)
		switch {
		case m.Key == "module":
			s, err := d.optionalString(m.Value, p)
			if err != nil {
				return decl, err
			}
			decl.Module = s
		case m.Key == "export":
			s, err := d.optionalString(m.Value, p)
			if err != nil {
				return decl, err
			}
			decl.Export = s
		case m.Key == "inherits" && withInherits:
			ref, err := d.ref(m.Value, p)
			if err != nil {
				return decl, err
			}
			decl.Inherits = ref
		default:
			if decl.Extra == nil {
				decl.Extra = make(map[string]any)
			}
			decl.Extra[m.Key] = Plain(m.Value)
		}
	}
	return decl, nil
}

// ref accepts a bare export name or a {module, export} object.
func (d *decoder) ref(v any, at string) (*Ref, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &Ref{Export: val}, nil
	case Object:
		var ref Ref
		for _, m := range val {
			p := join(at, m.Key)
			switch m.Key {
			case "module":
				s, err := d.optionalString(m.Value, p)
				if err != nil {
					return nil, err
				}
				ref.Module = s
			case "export":
				s, err := d.optionalString(m.Value, p)
				if err != nil {
					return nil, err
				}
				ref.Export = s
			}
		}
		return &ref, nil
	default:
		return nil, d.fail(at, "inherits must be a name or an object, got %s", kindOf(v))
	}
}

func (d *decoder) plugins(v any, at string) ([]PluginEntry, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Object:
		out := make([]PluginEntry, 0, len(val))
		for _, m := range val {
			out = append(out, PluginEntry{Ref: m.Key, Options: Plain(m.Value)})
		}
		return out, nil
	case []any:
		out := make([]PluginEntry, 0, len(val))
		for i, item := range val {
			switch entry := item.(type) {
			case nil:
				continue
			case string:
				if entry == "" {
					continue
				}
				out = append(out, PluginEntry{Ref: entry})
			case []any:
				switch len(entry) {
				case 0:
					continue
				case 1:
					out = append(out, PluginEntry{Ref: Plain(entry[0])})
				case 2:
					out = append(out, PluginEntry{Ref: Plain(entry[0]), Options: Plain(entry[1])})
				default:
					return nil, d.fail(index(at, i), "expected [plugin] or [plugin, options], got %d elements", len(entry))
				}
			case Object:
				out = append(out, PluginEntry{Ref: Plain(entry)})
			default:
				return nil, d.fail(index(at, i), "expected a plugin reference, got %s", kindOf(item))
			}
		}
		return out, nil
	default:
		return nil, d.fail(at, "expected an object or an array, got %s", kindOf(v))
	}
}

func (d *decoder) options(v any, at string) ([]OptionEntry, error) {
	pairs, err := d.pairs(v, at)
	if err != nil {
		return nil, err
	}
	out := make([]OptionEntry, 0, len(pairs))
	for _, m := range pairs {
		out = append(out, OptionEntry{Name: m.Key, Value: Plain(m.Value)})
	}
	return out, nil
}

func (d *decoder) contexts(v any, at string) (map[string]*Document, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, d.fail(at, "context must be an object, got %s", kindOf(v))
	}
	out := make(map[string]*Document, len(obj))
	for _, m := range obj {
		doc, err := d.document(m.Value, join(at, m.Key))
		if err != nil {
			return nil, err
		}
		out[m.Key] = doc
	}
	return out, nil
}

func (d *decoder) optionalString(v any, at string) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", d.fail(at, "expected a string, got %s", kindOf(v))
	}
}

func join(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}

func index(at string, i int) string {
	return at + "[" + strconv.Itoa(i) + "]"
}
