package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gavel/internal/config"
	"gavel/internal/extcmd"
	"gavel/internal/fileutil"
	"gavel/internal/logging"
	"gavel/internal/services"
)

const stageName = "transcribe"

// transcriptExtensions lists output formats in canonical preference order:
// the timestamped VTT wins over SRT, plain text comes last.
var transcriptExtensions = []string{".vtt", ".srt", ".txt"}

// Result describes the transcripts produced for one clip.
type Result struct {
	// CanonicalPath is the preferred transcript artifact.
	CanonicalPath string
	// Paths holds every transcript representation that was produced.
	Paths []string
}

// Service derives transcripts from media files via whisper.
type Service struct {
	cfg    *config.Config
	runner *extcmd.Runner
	logger *slog.Logger
}

// NewService creates a transcribe service.
func NewService(cfg *config.Config, runner *extcmd.Runner, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		runner: runner,
		logger: logging.NewComponentLogger(logger, stageName),
	}
}

// TranscriptBase returns the extensionless canonical transcript path for a clip.
func TranscriptBase(cfg *config.Config, clipID string) string {
	return filepath.Join(cfg.Paths.TranscriptDir, "clip_"+clipID)
}

// CanonicalPath returns the preferred transcript location for a clip.
func CanonicalPath(cfg *config.Config, clipID string) string {
	return TranscriptBase(cfg, clipID) + transcriptExtensions[0]
}

// Transcribe runs the strategy table against mediaPath until one variant
// yields a usable transcript. All variants failing is a stage failure.
func (s *Service) Transcribe(ctx context.Context, clipID, mediaPath string) (Result, error) {
	logger := logging.WithContext(ctx, s.logger)
	timeout := s.cfg.TranscribeTimeout()
	strategies := Strategies()

	var lastErr error
	for i, strategy := range strategies {
		if ctx.Err() != nil {
			break
		}

		logger.Info("trying transcription method",
			logging.String("method", strategy.Name),
			logging.Int("attempt", i+1),
			logging.Int("methods", len(strategies)),
			logging.Duration("timeout", timeout),
		)

		result := s.runner.Run(ctx, strategy.Command(s.cfg, mediaPath), timeout)
		switch result.Outcome {
		case extcmd.OutcomeTimeout:
			lastErr = services.Wrap(services.ErrTimeout, stageName, strategy.Name,
				fmt.Sprintf("no transcript after %s", timeout), result.Err)
			logger.Warn("transcription method timed out", logging.String("method", strategy.Name))
			continue
		case extcmd.OutcomeFailure:
			lastErr = services.Wrap(services.ErrExternalTool, stageName, strategy.Name,
				firstNonEmpty(result.Stderr, "transcriber failed"), result.Err)
			logger.Warn("transcription method failed",
				logging.String("method", strategy.Name),
				logging.Error(result.Err),
			)
			continue
		}

		collected, err := s.collect(clipID, mediaPath)
		if err != nil {
			lastErr = err
			continue
		}
		logger.Info("transcription complete",
			logging.String("method", strategy.Name),
			logging.String("transcript", collected.CanonicalPath),
			logging.Duration("elapsed", result.Duration),
		)
		return collected, nil
	}

	return Result{}, services.Wrap(services.ErrExternalTool, stageName, "",
		fmt.Sprintf("all %d transcription methods failed", len(strategies)), lastErr)
}

// collect renames whisper's <media-base>.* outputs to the canonical
// clip_<id>.* names and picks the richest artifact.
func (s *Service) collect(clipID, mediaPath string) (Result, error) {
	mediaBase := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	targetBase := TranscriptBase(s.cfg, clipID)

	var result Result
	for _, ext := range transcriptExtensions {
		generated := filepath.Join(s.cfg.Paths.TranscriptDir, mediaBase+ext)
		target := targetBase + ext
		if generated != target && fileutil.ArtifactReady(generated, 1) && !fileutil.ArtifactReady(target, 1) {
			if err := fileutil.MoveFile(generated, target); err != nil {
				return Result{}, services.Wrap(services.ErrExternalTool, stageName, "rename",
					fmt.Sprintf("move %s into place", filepath.Base(generated)), err)
			}
		}
		if fileutil.ArtifactReady(target, s.cfg.Transcribe.MinTranscriptBytes) {
			result.Paths = append(result.Paths, target)
			if result.CanonicalPath == "" {
				result.CanonicalPath = target
			}
		}
	}

	if result.CanonicalPath == "" {
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "",
			"transcriber reported success but produced no usable transcript", nil)
	}
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
