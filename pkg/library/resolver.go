// SPDX-License-Identifier: MPL-2.0

package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// NodeModulesDir is the directory name searched for installed libraries.
	NodeModulesDir = "node_modules"

	// DefaultManifestCacheSize is the number of parsed manifests kept in memory.
	DefaultManifestCacheSize = 256
)

type (
	// Resolver maps library references to library root directories.
	//
	// A Resolver is not safe for concurrent use; a single configuration build
	// owns it.
	Resolver struct {
		baseDir   string
		nodePath  []string
		manifests *lru.Cache[string, Manifest]
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*resolverOptions)

	resolverOptions struct {
		cacheSize int
		nodePath  []string
		envLookup bool
	}
)

// WithManifestCacheSize sets the number of manifests kept in the LRU cache.
func WithManifestCacheSize(size int) ResolverOption {
	return func(o *resolverOptions) {
		o.cacheSize = size
	}
}

// WithNodePath sets extra global lookup directories, replacing the NODE_PATH
// environment variable.
func WithNodePath(dirs ...string) ResolverOption {
	return func(o *resolverOptions) {
		o.nodePath = dirs
		o.envLookup = false
	}
}

// NewResolver creates a Resolver whose fallback lookups start at baseDir.
// An empty baseDir uses the current working directory.
func NewResolver(baseDir string, opts ...ResolverOption) (*Resolver, error) {
	options := resolverOptions{cacheSize: DefaultManifestCacheSize, envLookup: true}
	for _, opt := range opts {
		opt(&options)
	}

	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	// golang-lru requires a positive size
	if options.cacheSize <= 0 {
		options.cacheSize = DefaultManifestCacheSize
	}
	cache, err := lru.New[string, Manifest](options.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest cache: %w", err)
	}

	nodePath := options.nodePath
	if options.envLookup {
		nodePath = filepath.SplitList(os.Getenv("NODE_PATH"))
	}

	return &Resolver{
		baseDir:   absBase,
		nodePath:  nodePath,
		manifests: cache,
	}, nil
}

// BaseDir returns the directory used when a lookup has no better origin.
func (r *Resolver) BaseDir() string { return r.baseDir }

// ResolveRoot returns the absolute, cleaned directory containing the manifest
// of the library referenced by ref. Relative references and package lookups
// start at fromDir; an empty fromDir means the resolver's base directory.
func (r *Resolver) ResolveRoot(ref, fromDir string) (string, error) {
	if fromDir == "" {
		fromDir = r.baseDir
	} else if abs, err := filepath.Abs(fromDir); err == nil {
		fromDir = abs
	}

	if ref == "" {
		return "", &ResolutionError{Library: ref, FromDir: fromDir}
	}

	if filepath.IsAbs(ref) || isRelativeRef(ref) {
		dir := ref
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(fromDir, dir)
		}
		dir = filepath.Clean(dir)
		if !hasManifest(dir) {
			return "", &ResolutionError{Library: ref, FromDir: fromDir}
		}
		return dir, nil
	}

	if dir, ok := lookupNodeModules(ref, fromDir); ok {
		return dir, nil
	}
	if fromDir != r.baseDir {
		if dir, ok := lookupNodeModules(ref, r.baseDir); ok {
			return dir, nil
		}
	}
	for _, global := range r.nodePath {
		if global == "" {
			continue
		}
		dir := filepath.Join(global, filepath.FromSlash(ref))
		if hasManifest(dir) {
			abs, err := filepath.Abs(dir)
			if err != nil {
				continue
			}
			return abs, nil
		}
	}

	return "", &ResolutionError{Library: ref, FromDir: fromDir}
}

// ReadManifest returns the parsed manifest of dir, serving repeated reads from
// the cache.
func (r *Resolver) ReadManifest(dir string) (Manifest, error) {
	if m, ok := r.manifests.Get(dir); ok {
		return m, nil
	}
	m, err := readManifestFile(dir)
	if err != nil {
		return Manifest{}, err
	}
	r.manifests.Add(dir, m)
	return m, nil
}

// Forget drops the cached manifest of dir. Watch mode calls this when a
// package.json changes on disk.
func (r *Resolver) Forget(dir string) {
	r.manifests.Remove(dir)
}

// Purge empties the manifest cache.
func (r *Resolver) Purge() {
	r.manifests.Purge()
}

// lookupNodeModules walks from dir to the filesystem root looking for
// node_modules/<name>/package.json.
func lookupNodeModules(name, dir string) (string, bool) {
	rel := filepath.FromSlash(name)
	for {
		if filepath.Base(dir) != NodeModulesDir {
			candidate := filepath.Join(dir, NodeModulesDir, rel)
			if hasManifest(candidate) {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isRelativeRef(ref string) bool {
	return ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") ||
		strings.HasPrefix(ref, `.\`) || strings.HasPrefix(ref, `..\`)
}

func hasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestFileName))
	return err == nil && !info.IsDir()
}
