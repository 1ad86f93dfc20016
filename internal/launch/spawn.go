package launch

import (
	"errors"
	"os/exec"

	"github.com/ynput/applaunch/internal/descriptor"
	"github.com/ynput/applaunch/internal/procutil"
)

// Spawn starts the descriptor's argument vector as a detached child process
// with the given environment and stream targets, and returns its pid.
//
// Redirection is applied as part of process creation, so there is no window
// where the child could see the wrong descriptors. The child starts in its
// own session and is released immediately; nothing waits on it.
func Spawn(d *descriptor.Descriptor, env []string, streams *Streams) (int, error) {
	if len(d.Args) == 0 {
		return 0, errors.New("empty argument vector")
	}

	cmd := exec.Command(d.Args[0], d.Args[1:]...)
	cmd.Env = env
	cmd.Stdin = nil
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	procutil.ConfigureDetached(cmd)

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
