// Package engine orchestrates conversion runs. It selects the best
// available backend through the capability detector, runs one job at a
// time, and publishes progress over a per-run event channel.
//
// The event stream carries a hard contract: percent never decreases,
// exactly one terminal event ends every run, nothing follows it, and the
// channel is closed afterwards. Drivers report raw progress; the engine
// synthesizes the terminal event from the driver's return value.
package engine
