package ffmpeg

import (
	"fmt"
	"strconv"

	"reel/internal/convert"
	"reel/internal/media"
)

// buildArgs maps a job onto an ffmpeg invocation. Setting flags follow the
// codec block so an explicit bitrate overrides a codec default. The progress
// stream goes to stdout; stderr stays free for diagnostics.
func buildArgs(job convert.Job) []string {
	args := []string{"-i", job.SourcePath, "-y"}
	args = append(args, codecArgs(job.Format)...)
	if width, height, ok := job.Settings.Resolution.Dimensions(); ok {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	}
	if kbps := job.Settings.Bitrate.Kbps(job.Settings.Resolution); kbps > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", kbps))
	}
	if fps, ok := job.Settings.FrameRate.FPS(); ok {
		args = append(args, "-r", strconv.Itoa(fps))
	}
	args = append(args, "-progress", "pipe:1", "-nostats", job.OutputPath)
	return args
}

// codecArgs returns the encoder flags for a target container.
func codecArgs(format media.Format) []string {
	switch format {
	case media.FormatMP4:
		return []string{"-c:v", "libx264", "-preset", "medium", "-crf", "23", "-c:a", "aac", "-b:a", "128k"}
	case media.FormatMKV:
		return []string{"-c:v", "libx264", "-preset", "slow", "-crf", "18", "-c:a", "copy"}
	case media.FormatAVI:
		return []string{"-c:v", "mpeg4", "-q:v", "6", "-c:a", "libmp3lame", "-q:a", "4"}
	case media.FormatMOV:
		return []string{"-c:v", "prores_ks", "-profile:v", "3", "-c:a", "pcm_s16le"}
	case media.FormatWebM:
		return []string{"-c:v", "libvpx-vp9", "-crf", "30", "-b:v", "0", "-c:a", "libopus", "-b:a", "96k"}
	default:
		return nil
	}
}
