// Package tui implements the interactive terminal application: a file
// browser, format and settings pickers, and a live conversion screen driven
// by the engine's event stream. All state lives on the single bubbletea
// model and is mutated only inside Update; the engine communicates
// exclusively through its event channel, consumed via a self-re-arming
// command, so no locks guard UI state.
package tui
