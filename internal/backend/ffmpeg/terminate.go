package ffmpeg

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const terminatePollInterval = 50 * time.Millisecond

// terminate asks the child process to exit and escalates to SIGKILL when it
// has not left within the grace period. Safe to call while Wait runs in
// another goroutine.
func terminate(proc *os.Process, grace time.Duration) {
	if proc == nil {
		return
	}
	if err := proc.Signal(unix.SIGTERM); err != nil {
		// Already reaped or gone.
		return
	}
	deadline := time.NewTimer(grace)
	defer deadline.Stop()
	ticker := time.NewTicker(terminatePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			_ = proc.Kill()
			return
		case <-ticker.C:
			if err := proc.Signal(unix.Signal(0)); err != nil {
				return
			}
		}
	}
}
