// Package history persists finished conversion runs in a local SQLite
// database. The engine appends one record per terminal event and the CLI
// reads them back for `reel history`.
package history
