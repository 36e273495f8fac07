// SPDX-License-Identifier: MPL-2.0

package twistconfig

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/twist/twistconfig/pkg/document"
	"github.com/twist/twistconfig/pkg/library"
)

// DefaultContext is used when Create is given an empty context name.
const DefaultContext = "node"

type (
	// Configuration is the accumulated configuration of every library loaded
	// so far. Entries are only ever added or overwritten.
	Configuration struct {
		context    string
		baseDir    string
		patchesDir string

		ctx     context.Context
		logger  *slog.Logger
		builder TransformerBuilder
		loader  *loader

		decorators  map[string]document.Declaration
		components  map[string]document.Declaration
		options     map[string]any
		plugins     []document.PluginEntry
		pathAliases map[string]string
	}

	// Option configures Create.
	Option func(*settings)

	settings struct {
		ctx        context.Context
		logger     *slog.Logger
		resolver   *library.Resolver
		baseDir    string
		patchesDir string
		builder    TransformerBuilder
	}
)

// WithContext sets the context bounding dynamic configuration scripts.
func WithContext(ctx context.Context) Option {
	return func(s *settings) { s.ctx = ctx }
}

// WithLogger sets the logger used for load diagnostics. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithResolver replaces the default node_modules resolver.
func WithResolver(r *library.Resolver) Option {
	return func(s *settings) { s.resolver = r }
}

// WithBaseDir sets the directory standing in for the working directory: the
// default root, and the origin of lookups made outside any library.
func WithBaseDir(dir string) Option {
	return func(s *settings) { s.baseDir = dir }
}

// WithTransformerBuilder replaces BabelBuilder.
func WithTransformerBuilder(b TransformerBuilder) Option {
	return func(s *settings) { s.builder = b }
}

// WithHelperPatchesDir sets where the patched runtime helpers live.
func WithHelperPatchesDir(dir string) Option {
	return func(s *settings) { s.patchesDir = dir }
}

// Create builds a Configuration for contextName ("node" when empty).
//
// options holds schema options plus "root". Without a "root" key the base
// directory is loaded as the root library; "root": nil skips the initial load
// so libraries can be added by hand; a string names the root explicitly.
func Create(contextName string, options map[string]any, opts ...Option) (*Configuration, error) {
	s := settings{ctx: context.Background(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	if contextName == "" {
		contextName = DefaultContext
	}

	baseDir := s.baseDir
	if baseDir == "" {
		if s.resolver != nil {
			baseDir = s.resolver.BaseDir()
		} else {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			baseDir = wd
		}
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolver := s.resolver
	if resolver == nil {
		resolver, err = library.NewResolver(baseDir)
		if err != nil {
			return nil, err
		}
	}

	c := &Configuration{
		context:     contextName,
		baseDir:     baseDir,
		patchesDir:  s.patchesDir,
		ctx:         s.ctx,
		logger:      s.logger,
		builder:     s.builder,
		decorators:  make(map[string]document.Declaration),
		components:  make(map[string]document.Declaration),
		options:     defaultOptions(),
		pathAliases: make(map[string]string),
	}
	if c.patchesDir == "" {
		c.patchesDir = filepath.Join(baseDir, library.NodeModulesDir, "@twist", "configuration", "patches")
	}
	if c.builder == nil {
		c.builder = BabelBuilder{}
	}
	c.loader = newLoader(c, resolver)

	// sorted so the first unknown name reported is stable
	names := make([]string, 0, len(options))
	for name := range options {
		if name != RootOption {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		if err := c.SetOption(name, options[name]); err != nil {
			return nil, err
		}
	}

	root, hasRoot := options[RootOption]
	if !hasRoot {
		root = baseDir
	}
	if root == nil {
		return c, nil
	}
	rootPath, ok := root.(string)
	if !ok {
		return nil, fmt.Errorf("option %q must be a path or nil, got %T", RootOption, root)
	}
	if !filepath.IsAbs(rootPath) {
		rootPath = filepath.Join(baseDir, rootPath)
	}
	if _, err := c.AddLibrary(rootPath, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// AddLibrary loads a library and everything it declares. ref is a package
// name or a path; relative paths start at the base directory. The receiver is
// returned even on failure so callers can chain calls or inspect Libraries.
func (c *Configuration) AddLibrary(ref string, options library.Options) (*Configuration, error) {
	return c, c.loader.load(ref, options, library.Root())
}

// AddPathAlias registers an extra module alias reported by ResolvedOptions.
func (c *Configuration) AddPathAlias(name, path string) {
	c.pathAliases[name] = path
}

// MergeConfig folds a document into the configuration as if it were declared
// outside any library.
func (c *Configuration) MergeConfig(doc *document.Document) error {
	return c.mergeDocument(doc, library.Root())
}

// mergeDocument applies doc on behalf of lib. Order matters: sub-libraries
// first so the document's own declarations override theirs, then
// declarations, plugins and options, and the matching context last.
func (c *Configuration) mergeDocument(doc *document.Document, lib *library.Record) error {
	if doc == nil {
		return nil
	}

	for _, entry := range doc.Libraries {
		if err := c.loader.load(entry.Name, entry.Options, lib); err != nil {
			return err
		}
	}

	module := moduleName(lib)
	for _, entry := range doc.Decorators {
		c.decorators[entry.Name] = resolveDeclaration(entry, module, true)
	}
	for _, entry := range doc.Components {
		c.components[entry.Name] = resolveDeclaration(entry, module, false)
	}

	for _, plugin := range doc.BabelPlugins {
		c.addPlugin(plugin)
	}

	for _, opt := range doc.Options {
		if err := c.SetOption(opt.Name, opt.Value); err != nil {
			return err
		}
	}

	if nested := doc.ContextDocument(c.context); nested != nil {
		c.logger.Debug("applying context overrides", "context", c.context, "library", lib.String())
		return c.mergeDocument(nested, lib)
	}
	return nil
}

// addPlugin appends a plugin unless an equal reference is registered already.
// Names compare as strings and structured references by value.
func (c *Configuration) addPlugin(p document.PluginEntry) {
	for _, existing := range c.plugins {
		if library.EqualValues(existing.Ref, p.Ref) {
			return
		}
	}
	c.plugins = append(c.plugins, p)
}

// resolveDeclaration fills in the module and export a declaration omits.
func resolveDeclaration(entry document.DeclarationEntry, module string, withInherits bool) document.Declaration {
	decl := entry.Declaration.Clone()
	if decl.Module == "" {
		decl.Module = module
	}
	if decl.Export == "" {
		decl.Export = entry.Name
	}
	if !withInherits {
		decl.Inherits = nil
		return decl
	}
	if decl.Inherits != nil && decl.Inherits.Module == "" {
		decl.Inherits.Module = module
	}
	return decl
}

// moduleName is the module declarations default to: the library's manifest
// name, or nothing outside a library.
func moduleName(lib *library.Record) string {
	if lib == nil || lib.IsRoot() {
		return ""
	}
	return lib.Name()
}
