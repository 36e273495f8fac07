// SPDX-License-Identifier: MPL-2.0

package twistconfig

import (
	"github.com/twist/twistconfig/pkg/document"
	"github.com/twist/twistconfig/pkg/library"
)

// loader resolves libraries, keeps the load registry and hands each library's
// document back to the owning Configuration.
type loader struct {
	owner    *Configuration
	resolver *library.Resolver

	// registry holds one record per distinct (path, options) load attempt.
	registry []*library.Record
	// inflight is the chain of loads currently on the call stack, kept only
	// for CurrentLibrary; the active library travels as a parameter.
	inflight []*library.Record
}

func newLoader(owner *Configuration, resolver *library.Resolver) *loader {
	return &loader{owner: owner, resolver: resolver}
}

// load resolves ref from parent's directory and merges its document. Loading
// the same path with equal options again is a no-op.
func (l *loader) load(ref string, options library.Options, parent *library.Record) error {
	if parent == nil {
		parent = library.Root()
	}
	fromDir := parent.Path()
	if parent.IsRoot() {
		fromDir = l.owner.baseDir
	}

	path, err := l.resolver.ResolveRoot(ref, fromDir)
	if err != nil {
		return err
	}

	for _, rec := range l.registry {
		if rec.Matches(path, options) {
			l.owner.logger.Debug("library already loaded", "library", rec.String(), "path", path)
			return nil
		}
	}

	rec, err := library.NewRecord(path, options, parent, l.resolver)
	if err != nil {
		return err
	}
	l.registry = append(l.registry, rec)

	l.inflight = append(l.inflight, rec)
	defer func() { l.inflight = l.inflight[:len(l.inflight)-1] }()

	if existing := l.conflictFor(rec); existing != nil {
		return &library.VersionConflictError{Library: rec, Existing: existing}
	}

	l.owner.logger.Debug("loading library", "library", rec.String(), "path", path, "parent", parent.String())

	doc, found, err := document.Locate(l.owner.ctx, rec, options)
	if err != nil {
		return err
	}
	if !found {
		l.owner.logger.Warn("library is missing a root configuration", "library", rec.String(), "path", path)
		return nil
	}
	return l.owner.mergeDocument(doc, rec)
}

// conflictFor returns a registered record sharing rec's name with another
// version. Nameless libraries never conflict.
func (l *loader) conflictFor(rec *library.Record) *library.Record {
	if rec.Name() == "" {
		return nil
	}
	for _, other := range l.registry {
		if other != rec && other.Name() == rec.Name() && other.Version() != rec.Version() {
			return other
		}
	}
	return nil
}

func (l *loader) current() *library.Record {
	if len(l.inflight) == 0 {
		return library.Root()
	}
	return l.inflight[len(l.inflight)-1]
}
