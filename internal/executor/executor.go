// Package executor runs solved commands from a fixed allow-list so the
// student can see their real output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Default and max timeout for demonstration commands.
const (
	DefaultTimeout = 5 * time.Second
	MaxTimeout     = 60 * time.Second
)

// ErrNotAllowed is reported for commands whose name is not on the allow-list.
var ErrNotAllowed = errors.New("command not on allow-list")

// Status is the outcome of a demonstration run.
type Status int

const (
	// StatusRan means the process started and exited; ExitCode may be non-zero.
	StatusRan Status = iota
	// StatusSkipped means the command was not on the allow-list.
	StatusSkipped
	// StatusFailed means the process could not be run at all (missing binary, timeout, ...).
	StatusFailed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusRan:
		return "ran"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result holds the output of running a single command.
type Result struct {
	Command  string
	Status   Status
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// OK reports whether the command ran and exited zero.
func (r Result) OK() bool {
	return r.Status == StatusRan && r.ExitCode == 0
}

// NotFound reports whether the command failed because no program by that
// name exists, as with shell builtins such as history.
func (r Result) NotFound() bool {
	return r.Status == StatusFailed && errors.Is(r.Err, exec.ErrNotFound)
}

// Runner executes a literal command line.
type Runner interface {
	Run(ctx context.Context, line string) Result
}

// AllowList is the set of command names that may be executed.
type AllowList map[string]bool

// NewAllowList builds an AllowList from command names.
func NewAllowList(names ...string) AllowList {
	a := make(AllowList, len(names))
	for _, n := range names {
		a[n] = true
	}
	return a
}

// Allows reports whether the first whitespace-delimited token of line is allowed.
func (a AllowList) Allows(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return a[fields[0]]
}

// Executor runs allow-listed commands directly (no shell) with a timeout.
type Executor struct {
	allow   AllowList
	timeout time.Duration
}

// New creates an Executor. A non-positive timeout selects DefaultTimeout and
// values above MaxTimeout are capped.
func New(allow AllowList, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	return &Executor{allow: allow, timeout: timeout}
}

// Run executes line if its command name is allow-listed. Arguments are split
// on whitespace and passed straight to the program; there is no shell
// expansion. Run never panics and never returns an error directly: every
// outcome is described by the Result.
func (e *Executor) Run(ctx context.Context, line string) Result {
	line = strings.TrimSpace(line)
	res := Result{Command: line, ExitCode: -1}

	if !e.allow.Allows(line) {
		res.Status = StatusSkipped
		res.Err = ErrNotAllowed
		return res
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	fields := strings.Fields(line)
	cmd := exec.CommandContext(runCtx, fields[0], fields[1:]...) //nolint:gosec // name is allow-listed
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Stdout = strings.TrimSpace(stdout.String())
	res.Stderr = strings.TrimSpace(stderr.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Status = StatusRan
		res.ExitCode = 0
	case runCtx.Err() != nil:
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%s: %w", fields[0], runCtx.Err())
	case errors.As(err, &exitErr):
		res.Status = StatusRan
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%s: %w", fields[0], err)
	}
	return res
}
