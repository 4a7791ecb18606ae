package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"

	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"

	// FieldClipID is the standardized structured logging key for work item identifiers.
	FieldClipID = "clip_id"

	// FieldRunID carries the unique identifier of one controller run.
	FieldRunID = "run_id"
)

type contextKey int

const (
	stageContextKey contextKey = iota
	clipContextKey
)

// WithStage stores the active stage name on the context.
func WithStage(ctx context.Context, stage string) context.Context {
	stage = strings.TrimSpace(stage)
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageContextKey, stage)
}

// WithClip stores the active clip id on the context.
func WithClip(ctx context.Context, clipID string) context.Context {
	clipID = strings.TrimSpace(clipID)
	if clipID == "" {
		return ctx
	}
	return context.WithValue(ctx, clipContextKey, clipID)
}

// StageFromContext returns the stage name stored on the context, if any.
func StageFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	stage, _ := ctx.Value(stageContextKey).(string)
	return stage
}

// ClipFromContext returns the clip id stored on the context, if any.
func ClipFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	clipID, _ := ctx.Value(clipContextKey).(string)
	return clipID
}

// WithContext decorates the logger with any stage and clip identity carried
// by the context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	attrs := make([]any, 0, 2)
	if stage := StageFromContext(ctx); stage != "" {
		attrs = append(attrs, slog.String(FieldStage, stage))
	}
	if clipID := ClipFromContext(ctx); clipID != "" {
		attrs = append(attrs, slog.String(FieldClipID, clipID))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
