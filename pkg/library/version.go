// SPDX-License-Identifier: MPL-2.0

package library

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// CompareVersions orders two manifest versions. It returns -1, 0 or 1 when a
// is lower, equal or higher than b. Versions that do not parse as semantic
// versions are compared as plain strings.
func CompareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}
