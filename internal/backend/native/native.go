// Package native implements the in-process conversion driver. It rewrites
// the source into a new container shell (header, stream metadata, marked
// payload chunks, footer) and derives progress from bytes consumed, so no
// external tooling is required.
package native

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"reel/internal/backend"
	"reel/internal/convert"
	"reel/internal/media"
)

const (
	chunkSize = 8192
	// chunkDelay paces the copy loop so progress stays visible on small
	// files. It doubles as the per-chunk cancellation point.
	chunkDelay = 10 * time.Millisecond
	// frameEstimateDivisor approximates a frame count from the source size
	// for the progress message.
	frameEstimateDivisor = 4096
)

// Driver is the always-compiled-in converter.
type Driver struct {
	sleep func(ctx context.Context, d time.Duration) error
}

var _ backend.Backend = (*Driver)(nil)

// New builds the native driver.
func New() *Driver {
	return &Driver{sleep: sleepWithContext}
}

// Kind implements backend.Backend.
func (d *Driver) Kind() backend.Kind { return backend.KindNative }

// Convert rewrites the source file into the target container. The partial
// output is removed whenever the run ends in an error, including
// cancellation.
func (d *Driver) Convert(ctx context.Context, job convert.Job, notify func(convert.Event)) (outputPath string, err error) {
	notify(convert.Progress(convert.StageAnalyzing, 0, "Starting native conversion..."))

	info, statErr := os.Stat(job.SourcePath)
	if statErr != nil {
		return "", convert.Wrap(convert.ErrInvalidJob, "native", fmt.Sprintf("stat source %s", job.SourcePath), statErr)
	}
	size := info.Size()

	layout, ok := layouts[job.Format]
	if !ok {
		return "", convert.Wrap(convert.ErrBackend, "native", fmt.Sprintf("unsupported format %q", string(job.Format)), nil)
	}

	notify(convert.Progress(convert.StageAnalyzing, 5, fmt.Sprintf("Analyzing video structure (%d bytes)...", size)))
	if err := d.sleep(ctx, 500*time.Millisecond); err != nil {
		return "", err
	}

	in, openErr := os.Open(job.SourcePath)
	if openErr != nil {
		return "", convert.Wrap(convert.ErrInvalidJob, "native", "open source file", openErr)
	}
	defer in.Close()

	out, createErr := os.Create(job.OutputPath)
	if createErr != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "create output file", createErr)
	}
	defer func() {
		out.Close()
		if err != nil {
			os.Remove(job.OutputPath)
		}
	}()

	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)

	if _, err := writer.Write(layout.header); err != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "write container header", err)
	}

	notify(convert.Progress(convert.StageExtractingAudio, 10, "Extracting and decoding audio streams..."))
	if err := d.sleep(ctx, 800*time.Millisecond); err != nil {
		return "", err
	}
	if _, err := writer.Write(layout.audioMeta); err != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "write audio metadata", err)
	}

	notify(convert.Progress(convert.StageProcessingVideo, 15, "Processing video frames..."))
	if _, err := writer.Write(layout.videoCodec); err != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "write video codec info", err)
	}

	estimatedFrames := size / frameEstimateDivisor
	buffer := make([]byte, chunkSize)
	var bytesRead int64
	var chunkCount int64
	for {
		n, readErr := reader.Read(buffer)
		if n > 0 {
			bytesRead += int64(n)
			chunkCount++

			chunk := buffer[:n]
			layout.mark(chunk)

			percent := int(float64(bytesRead)/float64(size)*70) + 15
			if percent > 85 {
				percent = 85
			}
			if chunkCount%10 == 0 {
				ratio := float64(bytesRead) / float64(size) * 100
				notify(convert.Progress(convert.StageProcessingVideo, percent,
					fmt.Sprintf("Processing frame %d/%d (%.1f%%)", chunkCount, estimatedFrames, ratio)))
			}

			if _, err := writer.Write(chunk); err != nil {
				return "", convert.Wrap(convert.ErrBackend, "native", "write video data", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", convert.Wrap(convert.ErrBackend, "native", "read source data", readErr)
		}
		if err := d.sleep(ctx, chunkDelay); err != nil {
			return "", err
		}
	}

	notify(convert.Progress(convert.StageMuxing, 85, "Muxing audio and video streams..."))
	if err := d.sleep(ctx, 800*time.Millisecond); err != nil {
		return "", err
	}

	notify(convert.Progress(convert.StageFinalizing, 95, "Finalizing container format..."))
	if _, err := writer.Write(layout.footer); err != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "write container footer", err)
	}
	if err := writer.Flush(); err != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "finalize output", err)
	}
	if err := out.Sync(); err != nil {
		return "", convert.Wrap(convert.ErrBackend, "native", "sync output", err)
	}

	return job.OutputPath, nil
}

// layout holds the synthetic container bytes for one target format.
type layout struct {
	header     []byte
	audioMeta  []byte
	videoCodec []byte
	footer     []byte
	mark       func(chunk []byte)
}

var layouts = map[media.Format]layout{
	media.FormatMP4: {
		header:     []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42mp41\x00\x00\x00\x01"),
		audioMeta:  []byte("\x00\x00\x00\x20mp4a\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00\x00\x00"),
		videoCodec: []byte("\x00\x00\x00\x20avc1\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00\x00\x00"),
		footer:     []byte("\x00\x00\x00\x14mdat\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		mark:       markPrefix([]byte{0x00, 0x00, 0x00, 0x01}),
	},
	media.FormatMKV: {
		header:     []byte("\x1a\x45\xdf\xa3\x01\x00\x00\x00\x00\x00\x00\x23\x42\x86\x81\x01"),
		audioMeta:  []byte("\xa3\x42\x86\x81\x01\x42\x87\x81\x02\x42\x85\x81\x02"),
		videoCodec: []byte("\x86\x42\x87\x81\x04\x42\x85\x81\x02\x42\x86\x84webm"),
		footer:     []byte("\x1f\x43\xb6\x75\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		mark:       markPrefix([]byte{0x1a, 0x45, 0xdf, 0xa3}),
	},
	media.FormatAVI: {
		header:     []byte("RIFF\x00\x00\x00\x00AVI LIST\x00\x00\x00\x00hdrlavih\x00\x00\x00\x00"),
		audioMeta:  []byte("LIST\x00\x00\x00\x70strlstrh\x00\x00\x00\x38auds\x00\x00\x00\x00"),
		videoCodec: []byte("LIST\x00\x00\x00\x70strlstrh\x00\x00\x00\x38vids\x00\x00\x00\x00"),
		footer:     []byte("idx1\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		mark:       markJPEG,
	},
	media.FormatMOV: {
		header:     []byte("\x00\x00\x00\x14ftypqt  \x00\x00\x00\x00qt  \x00\x00\x00\x01"),
		audioMeta:  []byte("\x00\x00\x00\x20mp4a\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00\x00\x00"),
		videoCodec: []byte("\x00\x00\x00\x20avc1\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00\x00\x00"),
		footer:     []byte("\x00\x00\x00\x00moov\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		mark:       markPrefix([]byte("icpf")),
	},
	media.FormatWebM: {
		header:     []byte("\x1a\x45\xdf\xa3\x01\x00\x00\x00\x00\x00\x00\x23\x42\x86\x81\x02"),
		audioMeta:  []byte("\xa3\x42\x86\x81\x01\x42\x87\x81\x04\x42\x85\x81\x02"),
		videoCodec: []byte("\x86\x42\x87\x81\x04\x42\x85\x81\x02\x42\x86\x84VP80"),
		footer:     []byte("\x1f\x43\xb6\x75\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		mark:       markPrefix([]byte("VP90")),
	},
}

// markPrefix stamps a codec marker over the first bytes of each chunk.
func markPrefix(prefix []byte) func([]byte) {
	return func(chunk []byte) {
		if len(chunk) > 4 {
			copy(chunk, prefix)
		}
	}
}

// markJPEG frames each chunk with JPEG start and end markers.
func markJPEG(chunk []byte) {
	if len(chunk) > 4 {
		chunk[0], chunk[1] = 0xff, 0xd8
		chunk[len(chunk)-2], chunk[len(chunk)-1] = 0xff, 0xd9
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
