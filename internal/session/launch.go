package session

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"
)

// processHandle tracks a spawned process without ever blocking on it. The
// process may be short-lived (exec into a long-running window owner, or exit
// after spawning a child), so its exit is observational only.
type processHandle struct {
	cmd *exec.Cmd

	mu      sync.Mutex
	exited  bool
	exitErr error
}

// Exited reports, without blocking, whether the process has terminated and
// with what error (nil for a clean exit).
func (h *processHandle) Exited() (bool, error) {
	if h == nil {
		return false, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exited, h.exitErr
}

// launchWindow starts the process for a spec: composes the environment,
// resolves the working directory, and execs the command directly or through
// /bin/sh when Shell is set. The process is placed in its own process group
// and never killed by the engine. Stdout and stderr are discarded.
func launchWindow(spec WindowSpec) (*processHandle, error) {
	if len(spec.Command) == 0 {
		return nil, fmt.Errorf("command is empty")
	}

	argv := spec.Command
	if spec.Shell {
		argv = []string{"/bin/sh", "-c", ShellJoin(spec.Command)}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = spec.StartDirectory
	cmd.Env = composeEnvironment(spec.Environment, spec.CopyEnvironment)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &processHandle{cmd: cmd}
	go func() {
		err := cmd.Wait()
		h.mu.Lock()
		h.exited = true
		h.exitErr = err
		h.mu.Unlock()
	}()
	return h, nil
}

// composeEnvironment builds the child environment: the parent environment
// with overrides applied when copyEnv is set, otherwise exactly the overrides.
// Override keys replace inherited entries in place; new keys are appended in
// sorted order so the result is deterministic. The isolated result is never
// nil: exec.Cmd treats a nil Env as "inherit everything".
func composeEnvironment(overrides map[string]string, copyEnv bool) []string {
	var base []string
	if copyEnv {
		base = os.Environ()
	} else {
		base = []string{}
	}
	if len(overrides) == 0 {
		return base
	}

	remaining := make(map[string]string, len(overrides))
	for k, v := range overrides {
		remaining[k] = v
	}

	env := make([]string, 0, len(base)+len(overrides))
	for _, entry := range base {
		key := entry
		if i := strings.IndexByte(entry, '='); i >= 0 {
			key = entry[:i]
		}
		if value, ok := remaining[key]; ok {
			env = append(env, key+"="+value)
			delete(remaining, key)
			continue
		}
		env = append(env, entry)
	}

	keys := make([]string, 0, len(remaining))
	for k := range remaining {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+remaining[k])
	}
	return env
}
