// SPDX-License-Identifier: MPL-2.0

// Package testutil holds file fixture helpers that fail the test instead of
// returning errors. Library fixtures live in the libtest subpackage.
package testutil
