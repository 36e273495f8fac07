// SPDX-License-Identifier: MPL-2.0

// Package twistconfig builds the unified configuration of a twist project.
//
// Create loads the root library, then every library it declares, depth first.
// Each library's document is folded into one Configuration: sub-libraries are
// loaded before the document's own decorators, components, plugins and
// options are applied, and the section of "context" matching the active
// context is applied last. The result is read through ResolvedOptions and
// TransformerOptions.
//
//	cfg, err := twistconfig.Create("web", map[string]any{"regenerator": true})
//	if err != nil {
//	    return err
//	}
//	babel, err := cfg.TransformerOptions()
//
// A Configuration is not safe for concurrent use.
package twistconfig
