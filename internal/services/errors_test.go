package services_test

import (
	"errors"
	"fmt"
	"testing"

	"gavel/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", "download failed", base)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "transcribe", "", "all methods exhausted", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		marker error
		fatal  bool
	}{
		{services.ErrValidation, true},
		{services.ErrConfiguration, true},
		{services.ErrExternalTool, false},
		{services.ErrTimeout, false},
		{services.ErrTransient, false},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "stage", "op", "boom", nil)
		if got := services.IsFatal(err); got != tc.fatal {
			t.Fatalf("IsFatal(%v) = %v, want %v", tc.marker, got, tc.fatal)
		}
	}
}

func TestMessageStripsMarkerPrefix(t *testing.T) {
	err := services.Wrap(services.ErrTimeout, "fetch", "yt-dlp", "deadline exceeded", nil)
	if got := services.Message(err); got != "fetch: yt-dlp: deadline exceeded" {
		t.Fatalf("unexpected message %q", got)
	}
	if services.Message(nil) != "" {
		t.Fatal("expected empty message for nil error")
	}
}
