// SPDX-License-Identifier: MPL-2.0

// Package document reads library configuration documents.
//
// A library root may carry a static .twistrc file (JSON with comments and
// trailing commas) or a dynamic twist.config.lua script. Both are decoded
// into a neutral value tree, checked against the embedded CUE schema and
// normalized into a Document whose declaration lists are always ordered
// slices, whichever of the mapping or sequence forms the file used.
package document
