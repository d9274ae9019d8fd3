// Package config loads, normalizes, and validates voxhook configuration.
//
// Configuration lives in a single TOML file (default:
// ~/.config/voxhook/config.toml). Every path field is expanded and made
// absolute during load, so downstream packages never deal with ~ or relative
// paths. A missing config file is not an error: defaults apply, because a
// hook handler must keep working on a machine that was never configured.
package config
