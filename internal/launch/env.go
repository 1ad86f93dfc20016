// Package launch implements the detached launch pipeline: child environment
// construction, stream redirection, the spawn itself, and the best-effort
// reconciliation of the real application pid.
package launch

import (
	"sort"

	"github.com/ynput/applaunch/internal/descriptor"
)

// PIDFileEnvVar is injected into the child environment when the descriptor
// declares a pid_file, so a cooperating wrapper script knows where to report
// the real application pid.
const PIDFileEnvVar = "AYON_PID_FILE"

// BuildEnv materializes the child environment from the descriptor.
//
// The child never inherits the launcher's environment: an absent "env"
// object yields an empty environment, not the parent's. The returned slice
// is therefore always non-nil (exec.Cmd treats nil Env as "inherit").
// The pid-file variable is appended last, and only when the descriptor does
// not already carry it as an explicit env key.
func BuildEnv(d *descriptor.Descriptor) []string {
	env := make([]string, 0, len(d.Env)+1)

	keys := make([]string, 0, len(d.Env))
	for key := range d.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		env = append(env, key+"="+d.Env[key])
	}

	if d.PIDFile != "" {
		if _, explicit := d.Env[PIDFileEnvVar]; !explicit {
			env = append(env, PIDFileEnvVar+"="+d.PIDFile)
		}
	}

	return env
}
