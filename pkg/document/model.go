// SPDX-License-Identifier: MPL-2.0

package document

import "maps"

type (
	// Document is one library's parsed configuration. Every list keeps the
	// order in which entries were declared.
	Document struct {
		// Libraries are loaded before anything else in the document applies.
		Libraries    []LibraryEntry
		Decorators   []DeclarationEntry
		Components   []DeclarationEntry
		BabelPlugins []PluginEntry
		Options      []OptionEntry
		// Context holds documents applied only when the active context matches
		// the key.
		Context map[string]*Document
		// Source is the file the document was read from; empty when built in code.
		Source string
	}

	// LibraryEntry is a sub-library reference plus the options to load it with.
	LibraryEntry struct {
		Name    string
		Options map[string]any
	}

	// DeclarationEntry names a decorator or component declaration.
	DeclarationEntry struct {
		Name        string
		Declaration Declaration
	}

	// Declaration points at an exported symbol. Empty Module and Export are
	// filled in by the merger.
	Declaration struct {
		Module   string
		Export   string
		Inherits *Ref
		// Extra keeps any further keys a library attached to the declaration.
		Extra map[string]any
	}

	// Ref is a module/export pair used for decorator inheritance.
	Ref struct {
		Module string
		Export string
	}

	// PluginEntry registers a transformer plugin. Ref is usually the plugin
	// name but may be a structured value.
	PluginEntry struct {
		Ref     any
		Options any
	}

	// OptionEntry sets one configuration option.
	OptionEntry struct {
		Name  string
		Value any
	}
)

// ContextDocument returns the nested document for the given context, or nil.
func (d *Document) ContextDocument(name string) *Document {
	if d == nil || d.Context == nil {
		return nil
	}
	return d.Context[name]
}

// Clone returns a deep enough copy for the merger to own: Extra and Inherits
// are not shared with the receiver.
func (d Declaration) Clone() Declaration {
	out := d
	if d.Inherits != nil {
		ref := *d.Inherits
		out.Inherits = &ref
	}
	if d.Extra != nil {
		out.Extra = maps.Clone(d.Extra)
	}
	return out
}

// Map renders the declaration as the plain object the transformer consumes.
func (d Declaration) Map() map[string]any {
	out := make(map[string]any, len(d.Extra)+3)
	maps.Copy(out, d.Extra)
	out["module"] = d.Module
	out["export"] = d.Export
	if d.Inherits != nil {
		out["inherits"] = d.Inherits.Map()
	}
	return out
}

// Map renders the reference as {module, export}.
func (r Ref) Map() map[string]any {
	return map[string]any{"module": r.Module, "export": r.Export}
}

// Value renders the entry the way transformer plugin lists expect: the bare
// reference, or a [reference, options] pair when options are set.
func (p PluginEntry) Value() any {
	if p.Options == nil {
		return p.Ref
	}
	return []any{p.Ref, p.Options}
}
