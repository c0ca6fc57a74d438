// Package config loads termkeys configuration.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//  1. Built-in defaults (Default)
//  2. The TOML file, including any files named by its "@include" key
//  3. TERMKEYS_* environment variables
//
// Logging has its own TERMKEYS_LOG_* variables, applied by the logging
// package.
//
// # File format
//
//	[log]
//	level = "debug"
//	sink = "file"
//
//	[keyboard]
//	language = "en-US"
//	hardware = true
//
//	[keymap]
//	defaults = true
//	files = ["keymaps/tabs.toml", "keymaps/view.yaml"]
//
//	[plugins]
//	lua = ["plugins/clear.lua"]
//
// Relative keymap and plugin paths resolve against the directory of the
// configuration file.
//
// # Live reload
//
// The watcher subpackage reports changes to the configuration file and the
// keymap files it names.
package config
