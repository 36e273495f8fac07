// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the per-user settings directory in tests, where
// os.UserHomeDir may ignore HOME.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
