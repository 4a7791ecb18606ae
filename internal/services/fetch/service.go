package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"gavel/internal/config"
	"gavel/internal/extcmd"
	"gavel/internal/fileutil"
	"gavel/internal/logging"
	"gavel/internal/services"
)

const stageName = "fetch"

// mediaExtensions are the container formats yt-dlp is expected to produce,
// in preference order for locating the downloaded file.
var mediaExtensions = []string{".mp4", ".mkv", ".webm", ".avi"}

// Service downloads clip media via yt-dlp.
type Service struct {
	cfg    *config.Config
	runner *extcmd.Runner
	logger *slog.Logger
}

// NewService creates a fetch service.
func NewService(cfg *config.Config, runner *extcmd.Runner, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		runner: runner,
		logger: logging.NewComponentLogger(logger, stageName),
	}
}

// MediaBase returns the extensionless media path for a clip.
func MediaBase(cfg *config.Config, clipID string) string {
	return filepath.Join(cfg.Paths.MediaDir, "clip_"+clipID)
}

// FindMedia locates an already-downloaded media file for a clip.
func FindMedia(cfg *config.Config, clipID string) (string, bool) {
	return fileutil.FindWithExtensions(MediaBase(cfg, clipID), mediaExtensions)
}

// Fetch downloads the media for clipID and returns its local path. A media
// file left behind by an earlier run short-circuits the download.
func (s *Service) Fetch(ctx context.Context, clipID string) (string, error) {
	logger := logging.WithContext(ctx, s.logger)

	if path, ok := FindMedia(s.cfg, clipID); ok && fileutil.ArtifactReady(path, 1) {
		logger.Info("media already present, skipping download", logging.String("media_file", path))
		return path, nil
	}

	url := fmt.Sprintf(s.cfg.Fetch.URLTemplate, clipID)
	outputPattern := MediaBase(s.cfg, clipID) + ".%(ext)s"
	cmd := extcmd.Command{
		Name: s.cfg.Fetch.Binary,
		Args: []string{url, "-o", outputPattern, "--write-info-json"},
	}

	timeout := s.cfg.FetchTimeout()
	logger.Info("downloading media",
		logging.String("url", url),
		logging.Duration("timeout", timeout),
	)

	result := s.runner.Run(ctx, cmd, timeout)
	switch result.Outcome {
	case extcmd.OutcomeTimeout:
		return "", services.Wrap(services.ErrTimeout, stageName, s.cfg.Fetch.Binary,
			fmt.Sprintf("no media after %s", timeout), result.Err)
	case extcmd.OutcomeFailure:
		return "", services.Wrap(services.ErrExternalTool, stageName, s.cfg.Fetch.Binary,
			firstNonEmpty(result.Stderr, "download failed"), result.Err)
	}

	path, ok := FindMedia(s.cfg, clipID)
	if !ok {
		return "", services.Wrap(services.ErrExternalTool, stageName, s.cfg.Fetch.Binary,
			"download reported success but no media file was found", nil)
	}

	s.fileSidecar(ctx, clipID)

	var size uint64
	if info, err := os.Stat(path); err == nil {
		size = uint64(info.Size())
	}
	logger.Info("media downloaded",
		logging.String("media_file", path),
		logging.String("size", humanize.Bytes(size)),
		logging.Duration("elapsed", result.Duration),
	)
	return path, nil
}

// fileSidecar moves the yt-dlp info json into the metadata directory.
// Failure is logged but never demotes a successful fetch.
func (s *Service) fileSidecar(ctx context.Context, clipID string) {
	src := MediaBase(s.cfg, clipID) + ".info.json"
	if !fileutil.ArtifactReady(src, 1) {
		return
	}
	dst := filepath.Join(s.cfg.Paths.MetadataDir, "clip_"+clipID+".info.json")
	if err := fileutil.MoveFile(src, dst); err != nil {
		logging.WithContext(ctx, s.logger).Warn("unable to file metadata sidecar",
			logging.String("source", src),
			logging.Error(err),
		)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
