// SPDX-License-Identifier: MPL-2.0

// Package config handles twistconfig CLI settings using Viper with CUE as the file format.
//
// Settings are layered: built-in defaults, the per-user file
// (~/.config/twistconfig/twistconfig.cue or the platform equivalent), the project
// file (twistconfig.cue next to package.json) and TWISTCONFIG_* environment
// variables. Command-line flags override all of them. Files are validated against
// the embedded settings_schema.cue.
package config
