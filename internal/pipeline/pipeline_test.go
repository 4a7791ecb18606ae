package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gavel/internal/logging"
	"gavel/internal/pipeline"
	"gavel/internal/services"
	"gavel/internal/services/transcribe"
	"gavel/internal/testsupport"
)

const vttBody = "WEBVTT\n\n00:00.000 --> 00:04.000\ncall to order\n"

type stubFetcher struct {
	calls int
	path  string
	err   error
}

func (s *stubFetcher) Fetch(ctx context.Context, clipID string) (string, error) {
	s.calls++
	return s.path, s.err
}

type stubTranscriber struct {
	calls  int
	result transcribe.Result
	err    error
	onCall func(clipID string)
}

func (s *stubTranscriber) Transcribe(ctx context.Context, clipID, mediaPath string) (transcribe.Result, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall(clipID)
	}
	return s.result, s.err
}

func TestProcessSuccessDeletesMedia(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	mediaPath := filepath.Join(cfg.Paths.MediaDir, "clip_10.mp4")
	testsupport.WriteFile(t, mediaPath, []byte("media-bytes"))
	transcriptPath := transcribe.CanonicalPath(cfg, "10")

	fetcher := &stubFetcher{path: mediaPath}
	transcriber := &stubTranscriber{
		result: transcribe.Result{CanonicalPath: transcriptPath, Paths: []string{transcriptPath}},
		onCall: func(string) {
			testsupport.WriteFile(t, transcriptPath, []byte(vttBody))
		},
	}

	p := pipeline.New(cfg, fetcher, transcriber, logging.NewNop())
	outcome, err := p.Process(context.Background(), "10")
	if err != nil || outcome != pipeline.OutcomeCompleted {
		t.Fatalf("expected completed, got %s (%v)", outcome, err)
	}

	if _, err := os.Stat(mediaPath); !os.IsNotExist(err) {
		t.Fatalf("expected media deleted after success, stat err %v", err)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	testsupport.WriteFile(t, transcribe.CanonicalPath(cfg, "10"), []byte(vttBody))

	fetcher := &stubFetcher{}
	transcriber := &stubTranscriber{}

	p := pipeline.New(cfg, fetcher, transcriber, logging.NewNop())
	outcome, err := p.Process(context.Background(), "10")
	if err != nil || outcome != pipeline.OutcomeCompleted {
		t.Fatalf("expected completed, got %s (%v)", outcome, err)
	}
	if fetcher.calls != 0 || transcriber.calls != 0 {
		t.Fatalf("expected zero external calls, got fetch=%d transcribe=%d", fetcher.calls, transcriber.calls)
	}
}

func TestProcessEmptyTranscriptIsNotDone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	// Zero-byte leftover from an interrupted run must not count as done.
	testsupport.WriteFile(t, transcribe.CanonicalPath(cfg, "10"), nil)

	mediaPath := filepath.Join(cfg.Paths.MediaDir, "clip_10.mp4")
	testsupport.WriteFile(t, mediaPath, []byte("media"))
	fetcher := &stubFetcher{path: mediaPath}
	transcriber := &stubTranscriber{result: transcribe.Result{CanonicalPath: transcribe.CanonicalPath(cfg, "10")}}

	p := pipeline.New(cfg, fetcher, transcriber, logging.NewNop())
	if _, err := p.Process(context.Background(), "10"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if fetcher.calls != 1 || transcriber.calls != 1 {
		t.Fatalf("expected both stages to run, got fetch=%d transcribe=%d", fetcher.calls, transcriber.calls)
	}
}

func TestProcessFetchFailureSkipsTranscribe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	fetcher := &stubFetcher{err: services.Wrap(services.ErrTimeout, "fetch", "yt-dlp", "no media after 30m", nil)}
	transcriber := &stubTranscriber{}

	p := pipeline.New(cfg, fetcher, transcriber, logging.NewNop())
	outcome, err := p.Process(context.Background(), "11")
	if outcome != pipeline.OutcomeFailed || err == nil {
		t.Fatalf("expected failed outcome with error, got %s (%v)", outcome, err)
	}
	if transcriber.calls != 0 {
		t.Fatalf("transcribe must never run without a fetched artifact, got %d calls", transcriber.calls)
	}
	if !services.IsTimeout(err) {
		t.Fatalf("expected timeout marker preserved, got %v", err)
	}
}

func TestProcessTranscribeFailureKeepsMedia(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	mediaPath := filepath.Join(cfg.Paths.MediaDir, "clip_11.mp4")
	testsupport.WriteFile(t, mediaPath, []byte("media"))
	fetcher := &stubFetcher{path: mediaPath}
	transcriber := &stubTranscriber{err: errors.New("all 3 transcription methods failed")}

	p := pipeline.New(cfg, fetcher, transcriber, logging.NewNop())
	outcome, err := p.Process(context.Background(), "11")
	if outcome != pipeline.OutcomeFailed || err == nil {
		t.Fatalf("expected failed outcome, got %s (%v)", outcome, err)
	}
	if _, err := os.Stat(mediaPath); err != nil {
		t.Fatalf("expected media kept for retry: %v", err)
	}
}
