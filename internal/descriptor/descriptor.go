// Package descriptor reads and rewrites the JSON launch descriptor shared
// between applaunch and its supervising application.
//
// The descriptor is read exactly once at the start of a run and, when it
// declares an argument vector, rewritten exactly once at the end with the
// resolved "pid" field. Every other key round-trips byte-for-byte.
package descriptor

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrUnreadable indicates the descriptor file could not be opened or read.
	ErrUnreadable = errors.New("descriptor unreadable")

	// ErrMalformed indicates the descriptor file is not a valid descriptor document.
	ErrMalformed = errors.New("descriptor malformed")
)

// StreamMode selects how a child standard stream is connected at spawn time.
type StreamMode int

const (
	// StreamDefault sends the stream to the default null-equivalent sink.
	// Used when the field is absent or an empty string.
	StreamDefault StreamMode = iota

	// StreamInherit leaves the stream connected to whatever the launcher's
	// own stream is. Used when the field is an explicit JSON null.
	StreamInherit

	// StreamFile redirects the stream to Path, creating or truncating it.
	StreamFile
)

// StreamPolicy is the resolved redirection target for one standard stream.
type StreamPolicy struct {
	Mode StreamMode
	Path string
}

// Descriptor is the parsed launch descriptor plus the raw bytes and path
// needed for the in-place write-back.
type Descriptor struct {
	path string
	raw  []byte

	// Env holds the string-valued entries of the "env" object. Non-string
	// values are skipped. A nil map with HasEnv false means the descriptor
	// carried no "env" object at all.
	Env    map[string]string
	HasEnv bool

	// Args is the argument vector; Args[0] is the executable path.
	// HasArgs is false when "args" is absent or not an array, in which
	// case nothing is spawned and the file is left untouched.
	Args    []string
	HasArgs bool

	Stdout StreamPolicy
	Stderr StreamPolicy

	// PIDFile is the path a wrapper script may report the real
	// application pid into. Empty when not declared as a string.
	PIDFile string
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformed)
	}

	d := &Descriptor{
		path: path,
		raw:  raw,
	}

	if env := root.Get("env"); env.Exists() && env.IsObject() {
		d.HasEnv = true
		d.Env = make(map[string]string)
		env.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				d.Env[key.String()] = value.String()
			}
			return true
		})
	}

	if args := root.Get("args"); args.Exists() && args.IsArray() {
		d.HasArgs = true
		elems := args.Array()
		d.Args = make([]string, 0, len(elems))
		for i, elem := range elems {
			if elem.Type != gjson.String {
				return nil, fmt.Errorf("%w: args[%d] is not a string", ErrMalformed, i)
			}
			d.Args = append(d.Args, elem.String())
		}
	}

	d.Stdout, err = parseStream(root.Get("stdout"), "stdout")
	if err != nil {
		return nil, err
	}
	d.Stderr, err = parseStream(root.Get("stderr"), "stderr")
	if err != nil {
		return nil, err
	}

	if pidFile := root.Get("pid_file"); pidFile.Type == gjson.String {
		d.PIDFile = pidFile.String()
	}

	return d, nil
}

// parseStream maps the tri-state stdout/stderr field to a StreamPolicy:
// absent or empty string = default sink, explicit null = inherit,
// non-empty string = redirect to that path.
func parseStream(field gjson.Result, name string) (StreamPolicy, error) {
	switch {
	case !field.Exists():
		return StreamPolicy{Mode: StreamDefault}, nil
	case field.Type == gjson.Null:
		return StreamPolicy{Mode: StreamInherit}, nil
	case field.Type == gjson.String:
		if field.String() == "" {
			return StreamPolicy{Mode: StreamDefault}, nil
		}
		return StreamPolicy{Mode: StreamFile, Path: field.String()}, nil
	default:
		return StreamPolicy{}, fmt.Errorf("%w: %s must be a string or null", ErrMalformed, name)
	}
}

// Path returns the file path the descriptor was loaded from.
func (d *Descriptor) Path() string {
	return d.path
}

// WriteBack rewrites the descriptor file in place with the resolved pid.
// A nil pid records JSON null, marking a failed spawn. All keys other than
// "pid" are preserved exactly as they were read.
func (d *Descriptor) WriteBack(pid *int) error {
	var (
		out []byte
		err error
	)
	if pid != nil {
		out, err = sjson.SetBytes(d.raw, "pid", *pid)
	} else {
		out, err = sjson.SetRawBytes(d.raw, "pid", []byte("null"))
	}
	if err != nil {
		return fmt.Errorf("set pid in descriptor: %w", err)
	}

	if err := os.WriteFile(d.path, out, 0o644); err != nil {
		return fmt.Errorf("write descriptor %s: %w", d.path, err)
	}
	return nil
}
