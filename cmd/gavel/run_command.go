package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"gavel/internal/checkpoint"
	"gavel/internal/extcmd"
	"gavel/internal/logging"
	"gavel/internal/pipeline"
	"gavel/internal/report"
	"gavel/internal/run"
	"gavel/internal/services/fetch"
	"gavel/internal/services/transcribe"
	"gavel/internal/workset"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var fromFile string
	var resume bool

	cmd := &cobra.Command{
		Use:   "run [clip-id ...]",
		Short: "Fetch and transcribe a batch of clips",
		Long: `Run fetches each clip's media and transcribes it, checkpointing every
outcome so an interrupted batch can be resumed. Clips are given explicitly
as arguments, read from a JSON id file with --from-file, or taken from the
previous invocation's stored work list with --resume. Clips that already
have a transcript are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workset.Request{ClipIDs: args, FromFile: fromFile, Resume: resume}
			if _, err := req.Mode(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
				return err
			}
			return executeRun(cmd, ctx, req)
		},
	}

	cmd.Flags().StringVar(&fromFile, "from-file", "", "JSON file containing an array of clip ids")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume the work list stored by the previous run")
	return cmd
}

func executeRun(cmd *cobra.Command, ctx *commandContext, req workset.Request) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "gavel.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another gavel run is already in progress (lock %s)", lock.Path())
	}
	defer lock.Unlock()

	store, err := checkpoint.Open(cfg)
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}
	defer store.Close()
	if backup := store.RecoveredBackup(); backup != "" {
		logger.Warn("checkpoint database was unreadable, starting from an empty checkpoint",
			logging.String("backup", backup))
	}

	clipIDs, err := workset.Resolve(signalCtx, req, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(clipIDs) == 0 {
		fmt.Fprintln(out, "All clips in the work list are already completed; nothing to do.")
		return nil
	}

	runner := extcmd.NewRunner(logger)
	pipe := pipeline.New(cfg,
		fetch.NewService(cfg, runner, logger),
		transcribe.NewService(cfg, runner, logger),
		logger,
	)
	controller := run.NewController(store, pipe, logger)

	summary := controller.Run(signalCtx, clipIDs)

	fmt.Fprintln(out, report.Render(summary))
	if path, err := report.Write(cfg.Paths.LogDir, summary); err != nil {
		logger.Warn("unable to persist run summary", logging.Error(err))
	} else {
		fmt.Fprintf(out, "Summary written to %s\n", path)
	}

	switch {
	case len(summary.Failed) > 0:
		return fmt.Errorf("%d of %d clips failed; retry with `gavel run %s`",
			len(summary.Failed), summary.Total, strings.Join(summary.FailedIDs(), " "))
	case summary.State == run.StateCancelled:
		return context.Canceled
	default:
		return nil
	}
}
