package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ynput/applaunch/internal/descriptor"
)

func writeDescriptorFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launch.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return path
}

func fastOpts() rootOptions {
	return rootOptions{wait: 10 * time.Millisecond, waitSet: true}
}

func TestRunLaunch_NoArgsLeavesFileUntouched(t *testing.T) {
	content := `{"env":{"A":"1"},"pid_file":"/tmp/p.pid"}`
	path := writeDescriptorFile(t, content)

	if err := runLaunch(path, fastOpts()); err != nil {
		t.Fatalf("runLaunch: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	if string(out) != content {
		t.Fatalf("descriptor without args must not be rewritten, got %q", out)
	}
}

func TestRunLaunch_SuccessWritesSpawnedPID(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("skipping: /bin/true not available")
	}
	path := writeDescriptorFile(t, `{"args":["/bin/true"]}`)

	if err := runLaunch(path, fastOpts()); err != nil {
		t.Fatalf("runLaunch: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	pid := gjson.GetBytes(out, "pid")
	if !pid.Exists() || pid.Type == gjson.Null || pid.Int() <= 0 {
		t.Fatalf("rewritten pid = %s, want positive integer", pid.Raw)
	}
	if got := gjson.GetBytes(out, "args").Raw; got != `["/bin/true"]` {
		t.Fatalf("args not preserved: %s", got)
	}
}

func TestRunLaunch_SpawnFailureWritesNullPID(t *testing.T) {
	path := writeDescriptorFile(t, `{"args":["/nonexistent/binary"]}`)

	err := runLaunch(path, fastOpts())
	if err == nil {
		t.Fatalf("expected spawn failure")
	}

	out, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read descriptor: %v", readErr)
	}
	pid := gjson.GetBytes(out, "pid")
	if !pid.Exists() || pid.Type != gjson.Null {
		t.Fatalf("rewritten pid = %s, want null", pid.Raw)
	}
}

func TestRunLaunch_PIDFileSupersedesSpawnedPID(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("skipping: /bin/true not available")
	}
	pidFile := filepath.Join(t.TempDir(), "app.pid")
	if err := os.WriteFile(pidFile, []byte("9999\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	path := writeDescriptorFile(t,
		`{"args":["/bin/true"],"env":{"A":"1"},"pid_file":`+quoteJSON(pidFile)+`}`)

	if err := runLaunch(path, fastOpts()); err != nil {
		t.Fatalf("runLaunch: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	if got := gjson.GetBytes(out, "pid").Int(); got != 9999 {
		t.Fatalf("rewritten pid = %d, want 9999 from pid file", got)
	}
	if got := gjson.GetBytes(out, "env").Raw; got != `{"A":"1"}` {
		t.Fatalf("env not preserved: %s", got)
	}
}

func TestRunLaunch_GarbagePIDFileKeepsSpawnedPID(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("skipping: /bin/true not available")
	}
	pidFile := filepath.Join(t.TempDir(), "app.pid")
	if err := os.WriteFile(pidFile, []byte("not a pid\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	path := writeDescriptorFile(t,
		`{"args":["/bin/true"],"pid_file":`+quoteJSON(pidFile)+`}`)

	if err := runLaunch(path, fastOpts()); err != nil {
		t.Fatalf("runLaunch: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	pid := gjson.GetBytes(out, "pid")
	if pid.Type == gjson.Null || pid.Int() <= 0 {
		t.Fatalf("rewritten pid = %s, want the spawned pid", pid.Raw)
	}
}

func TestRunLaunch_DescriptorErrorsTouchNothing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	if err := runLaunch(missing, fastOpts()); !errors.Is(err, descriptor.ErrUnreadable) {
		t.Fatalf("missing file: err = %v, want ErrUnreadable", err)
	}

	content := `{"args": [`
	path := writeDescriptorFile(t, content)
	if err := runLaunch(path, fastOpts()); !errors.Is(err, descriptor.ErrMalformed) {
		t.Fatalf("malformed file: err = %v, want ErrMalformed", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	if string(out) != content {
		t.Fatalf("malformed descriptor must not be rewritten")
	}
}

func TestExecute_MissingArgumentFails(t *testing.T) {
	cmd := newRootCmd("test")
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected usage error when descriptor path is absent")
	}
}

// quoteJSON wraps a path in JSON string quotes. Test temp paths never need
// escaping beyond this.
func quoteJSON(s string) string {
	return `"` + s + `"`
}
