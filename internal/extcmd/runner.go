package extcmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"gavel/internal/logging"
)

// Outcome classifies one external command invocation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the
// process is killed on timeout.
const waitDelay = 10 * time.Second

// outputTailLimit caps the captured output carried in a Result.
const outputTailLimit = 4096

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// String renders the command for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the terminal state of one invocation.
type Result struct {
	Outcome  Outcome
	Stdout   string
	Stderr   string
	Err      error
	Duration time.Duration
}

// Runner executes external commands with per-invocation timeouts.
type Runner struct {
	logger *slog.Logger

	// execFn substitutes the real process launch in tests.
	execFn func(ctx context.Context, cmd Command) (stdout, stderr string, err error)
}

// NewRunner constructs a runner. A nil logger is replaced with a no-op.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logging.NewComponentLogger(logger, "extcmd")}
}

// WithExecFn sets a custom process launcher (for testing).
func (r *Runner) WithExecFn(fn func(ctx context.Context, cmd Command) (string, string, error)) {
	r.execFn = fn
}

// Run executes cmd, terminating the process if timeout elapses. A zero or
// negative timeout means no deadline. All failure modes, including a child
// that cannot be started, resolve to a Result rather than a raised error.
func (r *Runner) Run(ctx context.Context, cmd Command, timeout time.Duration) Result {
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := r.launch(runCtx, cmd)
	result := Result{
		Stdout:   tail(stdout),
		Stderr:   tail(stderr),
		Err:      err,
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.Outcome = OutcomeSuccess
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		result.Outcome = OutcomeTimeout
		result.Err = context.DeadlineExceeded
	default:
		result.Outcome = OutcomeFailure
	}

	r.logger.Debug("command finished",
		logging.String("command", cmd.Name),
		logging.String("outcome", string(result.Outcome)),
		logging.Duration("elapsed", result.Duration),
	)
	return result
}

func (r *Runner) launch(ctx context.Context, cmd Command) (string, string, error) {
	if r.execFn != nil {
		return r.execFn(ctx, cmd)
	}

	proc := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec
	if cmd.Dir != "" {
		proc.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		proc.Env = append(os.Environ(), cmd.Env...)
	}
	proc.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	return stdout.String(), stderr.String(), err
}

func tail(output string) string {
	output = strings.TrimSpace(output)
	if len(output) <= outputTailLimit {
		return output
	}
	return output[len(output)-outputTailLimit:]
}
