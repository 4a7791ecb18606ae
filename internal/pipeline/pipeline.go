package pipeline

import (
	"context"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"gavel/internal/config"
	"gavel/internal/fileutil"
	"gavel/internal/logging"
	"gavel/internal/services/transcribe"
)

// Outcome is the terminal state of one clip's trip through the pipeline.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Fetcher produces a local media file for a clip id.
type Fetcher interface {
	Fetch(ctx context.Context, clipID string) (string, error)
}

// Transcriber derives transcripts from a fetched media file.
type Transcriber interface {
	Transcribe(ctx context.Context, clipID, mediaPath string) (transcribe.Result, error)
}

// Pipeline drives one clip through fetch then transcribe.
type Pipeline struct {
	cfg         *config.Config
	fetcher     Fetcher
	transcriber Transcriber
	logger      *slog.Logger
}

// New constructs a pipeline over the given stage implementations.
func New(cfg *config.Config, fetcher Fetcher, transcriber Transcriber, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		fetcher:     fetcher,
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// AlreadyTranscribed reports whether the canonical transcript for a clip
// exists and is non-trivial. This file-level predicate is independent of the
// checkpoint store: either mechanism alone is enough to skip a clip.
func (p *Pipeline) AlreadyTranscribed(clipID string) (string, bool) {
	path := transcribe.CanonicalPath(p.cfg, clipID)
	if fileutil.ArtifactReady(path, p.cfg.Transcribe.MinTranscriptBytes) {
		return path, true
	}
	return "", false
}

// Process runs the two stages for one clip. The returned error explains a
// Failed outcome and is nil for Completed.
func (p *Pipeline) Process(ctx context.Context, clipID string) (Outcome, error) {
	ctx = logging.WithClip(ctx, clipID)
	logger := logging.WithContext(ctx, p.logger)

	if path, ok := p.AlreadyTranscribed(clipID); ok {
		logger.Info("transcript already exists, skipping clip", logging.String("transcript", path))
		return OutcomeCompleted, nil
	}

	fetchCtx := logging.WithStage(ctx, "fetch")
	mediaPath, err := p.fetcher.Fetch(fetchCtx, clipID)
	if err != nil {
		// No artifact, so the transcribe stage is never attempted.
		return OutcomeFailed, err
	}

	transcribeCtx := logging.WithStage(ctx, "transcribe")
	result, err := p.transcriber.Transcribe(transcribeCtx, clipID, mediaPath)
	if err != nil {
		// Media is kept so a retry can skip the download.
		return OutcomeFailed, err
	}

	p.cleanupMedia(ctx, mediaPath)

	logger.Info("clip completed",
		logging.String("transcript", result.CanonicalPath),
		logging.Int("transcript_formats", len(result.Paths)),
	)
	return OutcomeCompleted, nil
}

// cleanupMedia deletes the intermediate media file. Failure is logged but
// never demotes a completed clip.
func (p *Pipeline) cleanupMedia(ctx context.Context, mediaPath string) {
	logger := logging.WithContext(ctx, p.logger)

	var reclaimed uint64
	if info, err := os.Stat(mediaPath); err == nil {
		reclaimed = uint64(info.Size())
	}
	if err := os.Remove(mediaPath); err != nil {
		logger.Warn("unable to delete media file",
			logging.String("media_file", mediaPath),
			logging.Error(err),
		)
		return
	}
	logger.Info("media file deleted",
		logging.String("media_file", mediaPath),
		logging.String("reclaimed", humanize.Bytes(reclaimed)),
	)
}
