// Package backend defines the conversion driver contract and the detector
// that ranks the available drivers. Drivers live in subpackages; selection
// order is Native, then FFmpeg, then Simulated, with Simulated always
// available so selection cannot fail.
package backend
