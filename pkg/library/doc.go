// SPDX-License-Identifier: MPL-2.0

// Package library locates twist libraries on disk and describes them.
//
// A library is a directory holding a package.json manifest and, optionally, a
// root configuration file (.twistrc or twist.config.lua). The Resolver maps a
// library reference (package name, absolute path or relative path) to the
// directory containing its manifest, following the node_modules lookup rules
// of the host runtime. A Record captures one load of a library: its identity,
// the options it was loaded with and the library that requested it.
package library
