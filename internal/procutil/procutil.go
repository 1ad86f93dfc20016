//go:build !windows

// Package procutil provides the process detachment and liveness primitives
// used by the launcher. POSIX only.
package procutil

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ConfigureDetached configures a command to start in its own session,
// detached from the launcher's process group and controlling terminal.
func ConfigureDetached(cmd *exec.Cmd) {
	if cmd == nil {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}

// DetachSession makes the calling process a session leader so neither it nor
// its children receive a hangup signal when the invoking parent dies.
// Best-effort: setsid fails if the caller already leads a process group,
// which is harmless here.
func DetachSession() {
	_, _ = unix.Setsid()
}

// IsProcessAlive reports whether a process with the given PID appears alive.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but we lack permission to signal it.
	return !errors.Is(err, syscall.ESRCH)
}
