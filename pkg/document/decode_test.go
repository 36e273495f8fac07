// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecode_MappingAndSequenceForms(t *testing.T) {
	t.Parallel()

	mapping := Object{
		{Key: "decorators", Value: Object{
			{Key: "Store", Value: Object{{Key: "inherits", Value: "BaseStore"}}},
			{Key: "Bind", Value: nil},
		}},
	}
	sequence := Object{
		{Key: "decorators", Value: []any{
			[]any{"Store", Object{{Key: "inherits", Value: "BaseStore"}}},
			nil,
			"Bind",
			[]any{},
		}},
	}

	fromMapping, err := Decode(mapping, "a")
	require.NoError(t, err)
	fromSequence, err := Decode(sequence, "a")
	require.NoError(t, err)

	want := []DeclarationEntry{
		{Name: "Store", Declaration: Declaration{Inherits: &Ref{Export: "BaseStore"}}},
		{Name: "Bind"},
	}
	assert.Equal(t, want, fromMapping.Decorators)
	assert.Equal(t, want, fromSequence.Decorators)
}

func TestDecode_Sections(t *testing.T) {
	t.Parallel()

	tree := Object{
		{Key: "libraries", Value: []any{"@twist/core", []any{"./local", Object{{Key: "debug", Value: true}}}}},
		{Key: "components", Value: Object{
			{Key: "my:component", Value: Object{
				{Key: "module", Value: "@twist/core"},
				{Key: "export", Value: "MyComponent"},
				{Key: "inherits", Value: "Ignored"},
			}},
			{Key: "disabled", Value: false},
		}},
		{Key: "babelPlugins", Value: []any{
			"transform-decorators",
			[]any{"module-resolver", Object{{Key: "root", Value: "."}}},
			Object{{Key: "name", Value: "structured"}},
		}},
		{Key: "options", Value: Object{{Key: "regenerator", Value: true}, {Key: "targets", Value: Object{{Key: "node", Value: 8.0}}}}},
		{Key: "context", Value: Object{{Key: "web", Value: Object{{Key: "options", Value: Object{{Key: "polyfill", Value: false}}}}}}},
		{Key: "unknown", Value: 1.0},
	}

	doc, err := Decode(tree, "/lib/.twistrc")
	require.NoError(t, err)
	assert.Equal(t, "/lib/.twistrc", doc.Source)

	assert.Equal(t, []LibraryEntry{
		{Name: "@twist/core"},
		{Name: "./local", Options: map[string]any{"debug": true}},
	}, doc.Libraries)

	require.Len(t, doc.Components, 1)
	comp := doc.Components[0]
	assert.Equal(t, "my:component", comp.Name)
	assert.Equal(t, "@twist/core", comp.Declaration.Module)
	assert.Equal(t, "MyComponent", comp.Declaration.Export)
	assert.Nil(t, comp.Declaration.Inherits, "components carry no inheritance")
	assert.Equal(t, map[string]any{"inherits": "Ignored"}, comp.Declaration.Extra)

	assert.Equal(t, []PluginEntry{
		{Ref: "transform-decorators"},
		{Ref: "module-resolver", Options: map[string]any{"root": "."}},
		{Ref: map[string]any{"name": "structured"}},
	}, doc.BabelPlugins)

	assert.Equal(t, []OptionEntry{
		{Name: "regenerator", Value: true},
		{Name: "targets", Value: map[string]any{"node": 8.0}},
	}, doc.Options)

	web := doc.ContextDocument("web")
	require.NotNil(t, web)
	assert.Equal(t, []OptionEntry{{Name: "polyfill", Value: false}}, web.Options)
	assert.Nil(t, doc.ContextDocument("node"))
}

func TestDecode_InheritsObject(t *testing.T) {
	t.Parallel()

	doc, err := Decode(Object{{Key: "decorators", Value: Object{
		{Key: "Store", Value: Object{{Key: "inherits", Value: Object{
			{Key: "module", Value: "@twist/core"},
			{Key: "export", Value: "BaseStore"},
		}}}},
	}}}, "x")
	require.NoError(t, err)
	assert.Equal(t, &Ref{Module: "@twist/core", Export: "BaseStore"}, doc.Decorators[0].Declaration.Inherits)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tree    any
		wantSub string
	}{
		{name: "not an object", tree: []any{}, wantSub: "document must be an object"},
		{name: "section scalar", tree: Object{{Key: "decorators", Value: "Store"}}, wantSub: "decorators: expected an object or an array"},
		{name: "declaration scalar", tree: Object{{Key: "components", Value: Object{{Key: "x", Value: 3.0}}}}, wantSub: "components.x"},
		{name: "module type", tree: Object{{Key: "decorators", Value: Object{{Key: "S", Value: Object{{Key: "module", Value: 1.0}}}}}}, wantSub: "decorators.S.module"},
		{name: "long pair", tree: Object{{Key: "libraries", Value: []any{[]any{"a", nil, nil}}}}, wantSub: "libraries[0]"},
		{name: "pair name", tree: Object{{Key: "options", Value: []any{[]any{1.0, 2.0}}}}, wantSub: "options[0][0]"},
		{name: "library options", tree: Object{{Key: "libraries", Value: Object{{Key: "a", Value: "b"}}}}, wantSub: "libraries.a"},
		{name: "context", tree: Object{{Key: "context", Value: []any{}}}, wantSub: "context must be an object"},
		{name: "nested context", tree: Object{{Key: "context", Value: Object{{Key: "web", Value: "x"}}}}, wantSub: "context.web"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.tree, "/lib/.twistrc")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigParse))

			var parseErr *ConfigParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "/lib/.twistrc", parseErr.Path)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

func TestDecode_NilIsEmpty(t *testing.T) {
	t.Parallel()
	doc, err := Decode(nil, "x")
	require.NoError(t, err)
	assert.Empty(t, doc.Libraries)
	assert.Empty(t, doc.Decorators)
	assert.Nil(t, doc.Context)
}

// The mapping and sequence forms of a section normalize to the same entries.
func TestDecode_FormsAgree(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfDistinct(rapid.StringMatching(`[A-Za-z][A-Za-z0-9:]{0,8}`), rapid.ID[string]).Draw(t, "names")

		mapping := Object{}
		sequence := []any{}
		for _, name := range names {
			var decl any
			switch rapid.IntRange(0, 2).Draw(t, "shape-"+name) {
			case 0:
				decl = nil
			case 1:
				decl = Object{{Key: "export", Value: rapid.StringMatching(`[A-Z][a-z]{0,5}`).Draw(t, "export-"+name)}}
			case 2:
				decl = Object{{Key: "module", Value: "@x/y"}, {Key: "inherits", Value: "Base"}}
			}
			mapping = append(mapping, Member{Key: name, Value: decl})
			if decl == nil && rapid.Bool().Draw(t, "bare-"+name) {
				sequence = append(sequence, name)
			} else {
				sequence = append(sequence, []any{name, decl})
			}
			if rapid.Bool().Draw(t, "hole-after-"+name) {
				sequence = append(sequence, nil)
			}
		}

		a, err := Decode(Object{{Key: "components", Value: mapping}}, "m")
		if err != nil {
			t.Fatalf("mapping form: %v", err)
		}
		b, err := Decode(Object{{Key: "components", Value: sequence}}, "m")
		if err != nil {
			t.Fatalf("sequence form: %v", err)
		}
		if len(a.Components) != len(names) {
			t.Fatalf("got %d components, want %d", len(a.Components), len(names))
		}
		assert.Equal(t, a.Components, b.Components)
	})
}

func TestDeclaration_CloneAndMap(t *testing.T) {
	t.Parallel()

	orig := Declaration{
		Module:   "@x/y",
		Export:   "Store",
		Inherits: &Ref{Module: "@x/y", Export: "Base"},
		Extra:    map[string]any{"lazy": true},
	}
	clone := orig.Clone()
	clone.Inherits.Export = "Other"
	clone.Extra["lazy"] = false
	assert.Equal(t, "Base", orig.Inherits.Export)
	assert.Equal(t, true, orig.Extra["lazy"])

	assert.Equal(t, map[string]any{
		"module":   "@x/y",
		"export":   "Store",
		"inherits": map[string]any{"module": "@x/y", "export": "Base"},
		"lazy":     true,
	}, orig.Map())
}

func TestPluginEntry_Value(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a", PluginEntry{Ref: "a"}.Value())
	assert.Equal(t, []any{"a", map[string]any{"x": 1.0}}, PluginEntry{Ref: "a", Options: map[string]any{"x": 1.0}}.Value())
}
