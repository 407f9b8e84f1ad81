// Package media defines the conversion domain model: target container
// formats, the enumerated quality settings (resolution, bitrate, frame
// rate), and output path derivation.
//
// Settings are closed enumerations. The UI cycles them with Next/Prev and
// the CLI parses them with the Parse functions; arbitrary free-form values
// never enter a job.
package media
