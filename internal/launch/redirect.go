package launch

import (
	"fmt"
	"os"

	"github.com/ynput/applaunch/internal/descriptor"
)

// Streams holds the resolved redirection targets for the child process.
// Files opened by the resolver are owned by Streams and must be released
// with Close once the spawn has happened (or failed).
type Streams struct {
	// Stdout and Stderr are the targets to hand to exec.Cmd. A nil target
	// means the null device, which matches the descriptor's default.
	Stdout *os.File
	Stderr *os.File

	opened []*os.File
}

// ResolveStreams maps the descriptor's per-stream policy to concrete targets.
// defaultSink names the null-equivalent device used when a stream is left
// unspecified.
func ResolveStreams(d *descriptor.Descriptor, defaultSink string) (*Streams, error) {
	s := &Streams{}

	var err error
	s.Stdout, err = s.resolve(d.Stdout, os.Stdout, defaultSink)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Stderr, err = s.resolve(d.Stderr, os.Stderr, defaultSink)
	if err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Streams) resolve(policy descriptor.StreamPolicy, inherited *os.File, defaultSink string) (*os.File, error) {
	switch policy.Mode {
	case descriptor.StreamInherit:
		return inherited, nil
	case descriptor.StreamFile:
		return s.open(policy.Path)
	default:
		if defaultSink == "" || defaultSink == os.DevNull {
			// exec.Cmd connects a nil stream to the null device itself.
			return nil, nil
		}
		return s.open(defaultSink)
	}
}

func (s *Streams) open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open redirection target %s: %w", path, err)
	}
	s.opened = append(s.opened, f)
	return f, nil
}

// Close releases every file the resolver opened. The child keeps its own
// duplicated descriptors, so closing after a successful spawn is safe.
func (s *Streams) Close() {
	for _, f := range s.opened {
		_ = f.Close()
	}
	s.opened = nil
}
