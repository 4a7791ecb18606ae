package run

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gavel/internal/checkpoint"
	"gavel/internal/logging"
	"gavel/internal/pipeline"
	"gavel/internal/services"
)

// Processor is the pipeline contract the controller drives.
type Processor interface {
	Process(ctx context.Context, clipID string) (pipeline.Outcome, error)
}

// Controller iterates a resolved work set through the pipeline.
type Controller struct {
	store     *checkpoint.Store
	processor Processor
	logger    *slog.Logger
}

// NewController constructs a run controller.
func NewController(store *checkpoint.Store, processor Processor, logger *slog.Logger) *Controller {
	return &Controller{
		store:     store,
		processor: processor,
		logger:    logging.NewComponentLogger(logger, "run"),
	}
}

// Run processes clipIDs in order. Cancellation is checked before each clip;
// an in-flight clip is only interrupted through the stage timeouts killing
// the external process. Checkpoint writes survive cancellation: persistence
// uses a context detached from the cancel signal, and a write failure is
// logged rather than fatal since at worst one clip is redone later.
func (c *Controller) Run(ctx context.Context, clipIDs []string) *Summary {
	summary := &Summary{
		RunID:   uuid.NewString(),
		State:   StateDrained,
		Started: time.Now().UTC(),
		Total:   len(clipIDs),
	}
	logger := c.logger.With(logging.String(logging.FieldRunID, summary.RunID))
	persistCtx := context.WithoutCancel(ctx)

	defer func() {
		if err := c.store.ClearInProgress(persistCtx); err != nil {
			logger.Warn("unable to clear in-progress marker", logging.Error(err))
		}
		summary.Finished = time.Now().UTC()
	}()

	logger.Info("run started", logging.Int("clips", len(clipIDs)))

	for i, clipID := range clipIDs {
		if ctx.Err() != nil {
			summary.State = StateCancelled
			logger.Info("cancellation requested, stopping before next clip",
				logging.Int("processed", i),
				logging.Int("remaining", len(clipIDs)-i),
			)
			break
		}

		clipLogger := logger.With(logging.String(logging.FieldClipID, clipID))
		clipLogger.Info("processing clip", logging.Int("position", i+1), logging.Int("total", len(clipIDs)))

		if err := c.store.MarkInProgress(persistCtx, clipID); err != nil {
			clipLogger.Warn("unable to persist in-progress marker", logging.Error(err))
		}

		outcome, procErr := c.processor.Process(ctx, clipID)

		if outcome != pipeline.OutcomeCompleted && ctx.Err() != nil {
			// Interrupted mid-clip: the failure is an artifact of the
			// cancellation, not the clip. Leave it outstanding for resume.
			if err := c.store.ClearInProgress(persistCtx); err != nil {
				clipLogger.Warn("unable to clear in-progress marker", logging.Error(err))
			}
			summary.State = StateCancelled
			clipLogger.Info("clip interrupted by cancellation, left outstanding")
			break
		}

		switch outcome {
		case pipeline.OutcomeCompleted:
			if err := c.store.RecordCompleted(persistCtx, clipID); err != nil {
				clipLogger.Warn("unable to persist completion, continuing with in-memory state", logging.Error(err))
			}
			summary.Completed = append(summary.Completed, clipID)
		default:
			reason := services.Message(procErr)
			if err := c.store.RecordFailed(persistCtx, clipID, reason); err != nil {
				clipLogger.Warn("unable to persist failure, continuing with in-memory state", logging.Error(err))
			}
			summary.Failed = append(summary.Failed, FailedClip{ClipID: clipID, Reason: reason})
			clipLogger.Error("clip failed", logging.String("reason", reason))
		}

		if err := c.store.ClearInProgress(persistCtx); err != nil {
			clipLogger.Warn("unable to clear in-progress marker", logging.Error(err))
		}
	}

	logger.Info("run finished",
		logging.String("state", string(summary.State)),
		logging.Int("completed", len(summary.Completed)),
		logging.Int("failed", len(summary.Failed)),
		logging.Int("remaining", summary.Remaining()),
	)
	return summary
}
