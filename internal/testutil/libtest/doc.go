// SPDX-License-Identifier: MPL-2.0

// Package libtest builds twist library trees on disk for tests.
//
// It is separate from testutil so that testutil stays free of any knowledge
// about library layouts.
//
// # Usage
//
//	import "github.com/twist/twistconfig/internal/testutil/libtest"
//
//	root := libtest.NewProject(t, "app", "1.0.0", libtest.WithTwistrc(`{"libraries": ["@x/y"]}`))
//	libtest.Install(t, root, "@x/y", "2.0.0", libtest.WithTwistrc(`{"decorators": ["Store"]}`))
package libtest
