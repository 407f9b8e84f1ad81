// Package logging builds the slog loggers used across reel.
//
// The interactive UI owns the terminal, so loggers write to a file under the
// configured log directory (or to stderr for headless subcommands). Two
// output formats are supported: a compact console format for humans and JSON
// for ingestion. Helper constructors (NewNop, NewComponentLogger) and the
// attribute wrappers in attrs.go keep call sites terse.
package logging
