// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates data against embedded CUE schemas.
//
// Two entry points cover the callers in this module:
//
//   - ParseAndDecode compiles a CUE source file, unifies it with a schema
//     definition and decodes the result (used for the CLI settings file).
//   - ValidateValue encodes an already-decoded Go value into CUE and checks it
//     against a schema definition (used for configuration documents read from
//     JSONC or Lua, which never pass through the CUE parser).
//
// Both report failures with JSON-path prefixes:
//
//	.twistrc: decorators.Store.module: conflicting values 1 and string
package cueutil
