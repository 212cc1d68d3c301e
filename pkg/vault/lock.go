package vault

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/mgreten/revq/pkg/core"
)

// AcquireLock takes the advisory run lock beside the document. The lock
// file carries the owner pid; a lock whose owner is no longer alive is
// stolen. A live owner aborts the run with core.ErrLocked (wrapped).
//
// Runs are not expected to overlap (the external scheduler spaces them),
// so this is a guard against operator error, not a coordination protocol.
func AcquireLock(docPath string, logger *slog.Logger) (func(), error) {
	lockPath := docPath + ".lock"

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock %s: %w", lockPath, err)
		}

		owner, alive := lockOwner(lockPath)
		if alive {
			return nil, fmt.Errorf("lock %s held by pid %d: %w", lockPath, owner, core.ErrLocked)
		}

		if logger != nil {
			logger.Warn("stealing stale lock", "path", lockPath, "pid", owner)
		}
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale lock %s: %w", lockPath, err)
		}
	}

	return nil, fmt.Errorf("lock %s contended: %w", lockPath, core.ErrLocked)
}

// lockOwner reads the pid from a lock file and probes its liveness.
// An unreadable or garbled lock file counts as dead.
func lockOwner(lockPath string) (pid int, alive bool) {
	b, err := os.ReadFile(lockPath)
	if err != nil {
		return 0, false
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, false
	}
	return pid, proc.Signal(syscall.Signal(0)) == nil
}
