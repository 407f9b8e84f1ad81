// Package convert defines the conversion core shared by every backend and
// the engine: the immutable Job description, the ordered progress Event
// stream with its five stages, the error kind taxonomy, and the Backend
// contract drivers implement.
//
// A run produces a finite event sequence: zero or more progress events with
// monotonically non-decreasing percent, then exactly one terminal event
// (Completed or Failed). Terminal events are synthesized by the engine from
// a driver's return value, so drivers only ever report intermediate
// progress.
package convert
