// Package ffmpeg implements the external-process conversion driver. It maps
// jobs onto ffmpeg invocations, parses the -progress key=value stream for
// percent updates, and escalates SIGTERM to SIGKILL when a cancelled child
// does not exit within the grace period.
package ffmpeg
