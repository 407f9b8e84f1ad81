// Package main hosts the reel CLI entrypoint and command graph.
//
// The Cobra-based command tree launches the interactive converter by default
// and surfaces headless conversion, backend probing, history maintenance,
// and configuration scaffolding as subcommands. It centralizes configuration
// resolution and logger setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
