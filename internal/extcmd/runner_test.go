package extcmd_test

import (
	"context"
	"testing"
	"time"

	"gavel/internal/extcmd"
	"gavel/internal/logging"
)

func TestRunCapturesOutputOnSuccess(t *testing.T) {
	runner := extcmd.NewRunner(logging.NewNop())

	result := runner.Run(context.Background(), extcmd.Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	}, time.Minute)

	if result.Outcome != extcmd.OutcomeSuccess {
		t.Fatalf("expected success, got %s (%v)", result.Outcome, result.Err)
	}
	if result.Stdout != "out" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if result.Stderr != "err" {
		t.Fatalf("unexpected stderr %q", result.Stderr)
	}
}

func TestRunClassifiesNonZeroExitAsFailure(t *testing.T) {
	runner := extcmd.NewRunner(logging.NewNop())

	result := runner.Run(context.Background(), extcmd.Command{
		Name: "sh",
		Args: []string{"-c", "echo broken >&2; exit 3"},
	}, time.Minute)

	if result.Outcome != extcmd.OutcomeFailure {
		t.Fatalf("expected failure, got %s", result.Outcome)
	}
	if result.Err == nil {
		t.Fatal("expected an error for non-zero exit")
	}
	if result.Stderr != "broken" {
		t.Fatalf("expected captured stderr, got %q", result.Stderr)
	}
}

func TestRunEnforcesTimeout(t *testing.T) {
	runner := extcmd.NewRunner(logging.NewNop())

	start := time.Now()
	result := runner.Run(context.Background(), extcmd.Command{
		Name: "sleep",
		Args: []string{"30"},
	}, 150*time.Millisecond)

	if result.Outcome != extcmd.OutcomeTimeout {
		t.Fatalf("expected timeout, got %s (%v)", result.Outcome, result.Err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("timeout was not enforced, took %s", elapsed)
	}
}

func TestRunMissingBinaryIsFailureNotPanic(t *testing.T) {
	runner := extcmd.NewRunner(logging.NewNop())

	result := runner.Run(context.Background(), extcmd.Command{
		Name: "definitely-not-a-real-binary-gavel",
	}, time.Second)

	if result.Outcome != extcmd.OutcomeFailure {
		t.Fatalf("expected failure for missing binary, got %s", result.Outcome)
	}
}

func TestRunParentCancellationIsFailureNotTimeout(t *testing.T) {
	runner := extcmd.NewRunner(logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	result := runner.Run(ctx, extcmd.Command{
		Name: "sleep",
		Args: []string{"30"},
	}, time.Minute)

	if result.Outcome != extcmd.OutcomeFailure {
		t.Fatalf("expected failure on parent cancel, got %s", result.Outcome)
	}
}

func TestRunUsesInjectedExecFn(t *testing.T) {
	runner := extcmd.NewRunner(logging.NewNop())
	var got extcmd.Command
	runner.WithExecFn(func(_ context.Context, cmd extcmd.Command) (string, string, error) {
		got = cmd
		return "stubbed", "", nil
	})

	result := runner.Run(context.Background(), extcmd.Command{Name: "whisper", Args: []string{"clip.mp4"}}, time.Minute)

	if result.Outcome != extcmd.OutcomeSuccess || result.Stdout != "stubbed" {
		t.Fatalf("unexpected result %+v", result)
	}
	if got.Name != "whisper" || len(got.Args) != 1 {
		t.Fatalf("exec hook saw wrong command %+v", got)
	}
}
