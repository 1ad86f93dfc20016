package launch

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ReconcilePID waits for a cooperating wrapper script to report the real
// application pid into pidFile and returns it. The spawned pid stands unless
// the file's first line parses to a strictly positive integer.
//
// Reconciliation is best-effort: an unreadable, empty, or unparsable pid
// file silently falls back to the spawned pid.
func ReconcilePID(pidFile string, spawned int, wait time.Duration) int {
	if pidFile == "" {
		return spawned
	}

	// Give the wrapper time to determine and record the final pid.
	time.Sleep(wait)

	data, err := os.ReadFile(pidFile)
	if err != nil {
		return spawned
	}

	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return spawned
	}

	pid, err := strconv.Atoi(line)
	if err != nil || pid <= 0 {
		return spawned
	}

	return pid
}
