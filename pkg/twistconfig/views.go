// SPDX-License-Identifier: MPL-2.0

package twistconfig

import (
	"maps"
	"path/filepath"
	"slices"

	"dario.cat/mergo"

	"github.com/twist/twistconfig/pkg/document"
	"github.com/twist/twistconfig/pkg/library"
)

// Keys injected into the resolved option bag.
const (
	ResolvedAliasesKey      = "aliases"
	ResolvedAutoImportKey   = "autoImport"
	ResolvedBabelPluginsKey = "babelPlugins"
)

// ResolvedOptions is the option bag handed to the transformer builder.
type ResolvedOptions struct {
	// Options is the full schema option bag.
	Options map[string]any
	// Aliases maps module names to directories: loaded libraries, added path
	// aliases and the patched runtime helpers.
	Aliases map[string]string
	// AutoImport is decorators and components together; a component wins a
	// name collision.
	AutoImport   map[string]document.Declaration
	BabelPlugins []document.PluginEntry
}

// Map flattens the resolved options into plain values for encoding.
func (r ResolvedOptions) Map() map[string]any {
	out := maps.Clone(r.Options)
	if out == nil {
		out = make(map[string]any)
	}

	aliases := make(map[string]any, len(r.Aliases))
	for k, v := range r.Aliases {
		aliases[k] = v
	}
	out[ResolvedAliasesKey] = aliases

	autoImport := make(map[string]any, len(r.AutoImport))
	for k, decl := range r.AutoImport {
		autoImport[k] = decl.Map()
	}
	out[ResolvedAutoImportKey] = autoImport

	plugins := make([]any, 0, len(r.BabelPlugins))
	for _, p := range r.BabelPlugins {
		plugins = append(plugins, p.Value())
	}
	out[ResolvedBabelPluginsKey] = plugins
	return out
}

// Context returns the context name the configuration was created for.
func (c *Configuration) Context() string { return c.context }

// BaseDir returns the directory standing in for the working directory.
func (c *Configuration) BaseDir() string { return c.baseDir }

// Decorators returns a copy of the accumulated decorator declarations.
func (c *Configuration) Decorators() map[string]document.Declaration {
	return cloneDeclarations(c.decorators)
}

// Components returns a copy of the accumulated component declarations.
func (c *Configuration) Components() map[string]document.Declaration {
	return cloneDeclarations(c.components)
}

// BabelPlugins returns the registered plugins in registration order.
func (c *Configuration) BabelPlugins() []document.PluginEntry {
	return slices.Clone(c.plugins)
}

// Libraries returns every load attempt in registry order, including one that
// failed with a version conflict.
func (c *Configuration) Libraries() []*library.Record {
	return slices.Clone(c.loader.registry)
}

// LibraryLocations maps each loaded library name to its directory. A later
// load of the same name replaces the earlier path here only.
func (c *Configuration) LibraryLocations() map[string]string {
	out := make(map[string]string, len(c.loader.registry))
	for _, rec := range c.loader.registry {
		if rec.Name() == "" {
			continue
		}
		out[rec.Name()] = rec.Path()
	}
	return out
}

// CurrentLibrary returns the library being loaded, or the sentinel when idle.
func (c *Configuration) CurrentLibrary() *library.Record {
	return c.loader.current()
}

// HelperAliases returns the built-in aliases that replace problematic runtime
// helpers with patched copies.
func (c *Configuration) HelperAliases() map[string]string {
	return map[string]string{
		"babel-runtime/helpers/inherits":    filepath.Join(c.patchesDir, "inherits.js"),
		"babel-runtime/helpers/createClass": filepath.Join(c.patchesDir, "createClass.js"),
	}
}

// ResolvedOptions computes the option bag from the current state.
func (c *Configuration) ResolvedOptions() (ResolvedOptions, error) {
	aliases := c.HelperAliases()
	// mergo keeps keys already present, so helpers beat path aliases and
	// path aliases beat library locations
	if err := mergo.Merge(&aliases, maps.Clone(c.pathAliases)); err != nil {
		return ResolvedOptions{}, err
	}
	if err := mergo.Merge(&aliases, c.LibraryLocations()); err != nil {
		return ResolvedOptions{}, err
	}

	autoImport := c.Decorators()
	maps.Copy(autoImport, c.Components())

	return ResolvedOptions{
		Options:      c.Options(),
		Aliases:      aliases,
		AutoImport:   autoImport,
		BabelPlugins: c.BabelPlugins(),
	}, nil
}

// TransformerOptions builds the downstream transformer configuration from
// ResolvedOptions.
func (c *Configuration) TransformerOptions() (TransformerConfig, error) {
	resolved, err := c.ResolvedOptions()
	if err != nil {
		return TransformerConfig{}, err
	}
	return c.builder.Build(resolved)
}

func cloneDeclarations(in map[string]document.Declaration) map[string]document.Declaration {
	out := make(map[string]document.Declaration, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}
