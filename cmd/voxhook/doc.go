// Package main hosts the voxhook CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the hook entry point (`handle`), cache
// warming (`generate`), dynamic commentary (`quip`, hidden), and the
// maintenance surface: cache and history inspection, muting, configuration
// scaffolding, environment checks, and notification testing. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
package main
