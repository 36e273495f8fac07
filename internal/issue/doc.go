// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the library or file involved and
// remediation hints. The Markdown catalog holds longer guidance for the failure
// classes of a configuration build: unresolved libraries, manifest and
// configuration parse errors, version conflicts and unknown options.
package issue
