package checkpoint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gavel/internal/checkpoint"
	"gavel/internal/testsupport"
)

func TestOpenStartsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	snapshot, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snapshot.Completed) != 0 || len(snapshot.Failed) != 0 || snapshot.InProgress != "" {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestRecordOutcomesAreExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.RecordFailed(ctx, "11", "transcribe: all methods exhausted"); err != nil {
		t.Fatalf("RecordFailed: %v", err)
	}
	if err := store.RecordCompleted(ctx, "10"); err != nil {
		t.Fatalf("RecordCompleted: %v", err)
	}

	// A retried clip that now succeeds must leave the failed set.
	if err := store.RecordCompleted(ctx, "11"); err != nil {
		t.Fatalf("RecordCompleted retry: %v", err)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.Failed) != 0 {
		t.Fatalf("expected empty failed set after retry, got %+v", snapshot.Failed)
	}
	completed := snapshot.CompletedSet()
	for _, id := range []string{"10", "11"} {
		if _, ok := completed[id]; !ok {
			t.Fatalf("expected %s completed, got %v", id, snapshot.Completed)
		}
	}
	if snapshot.LastUpdated.IsZero() {
		t.Fatal("expected LastUpdated to be stamped")
	}
}

func TestFailedRecordKeepsMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.RecordFailed(ctx, "12", "fetch: yt-dlp: exit status 1"); err != nil {
		t.Fatalf("RecordFailed: %v", err)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.Failed) != 1 || snapshot.Failed[0].Message != "fetch: yt-dlp: exit status 1" {
		t.Fatalf("unexpected failed records %+v", snapshot.Failed)
	}
}

func TestInProgressIsSingletonAndClearable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.MarkInProgress(ctx, "10"); err != nil {
		t.Fatalf("MarkInProgress: %v", err)
	}
	if err := store.MarkInProgress(ctx, "11"); err != nil {
		t.Fatalf("MarkInProgress second: %v", err)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.InProgress != "11" {
		t.Fatalf("expected single in-progress clip 11, got %q", snapshot.InProgress)
	}

	if err := store.ClearInProgress(ctx); err != nil {
		t.Fatalf("ClearInProgress: %v", err)
	}
	snapshot, err = store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot after clear: %v", err)
	}
	if snapshot.InProgress != "" {
		t.Fatalf("expected no in-progress clip, got %q", snapshot.InProgress)
	}
}

func TestMarkInProgressThenOutcomeReplacesMarker(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.MarkInProgress(ctx, "10"); err != nil {
		t.Fatalf("MarkInProgress: %v", err)
	}
	if err := store.RecordCompleted(ctx, "10"); err != nil {
		t.Fatalf("RecordCompleted: %v", err)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.InProgress != "" {
		t.Fatalf("expected in-progress cleared by outcome, got %q", snapshot.InProgress)
	}
	if len(snapshot.Completed) != 1 || snapshot.Completed[0] != "10" {
		t.Fatalf("expected clip 10 completed, got %v", snapshot.Completed)
	}
}

func TestWorklistRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceWorklist(ctx, []string{"10", "11", "12"}); err != nil {
		t.Fatalf("ReplaceWorklist: %v", err)
	}
	ids, err := store.Worklist(ctx)
	if err != nil {
		t.Fatalf("Worklist: %v", err)
	}
	if len(ids) != 3 || ids[0] != "10" || ids[2] != "12" {
		t.Fatalf("unexpected worklist %v", ids)
	}

	if err := store.ReplaceWorklist(ctx, []string{"20"}); err != nil {
		t.Fatalf("ReplaceWorklist replace: %v", err)
	}
	ids, err = store.Worklist(ctx)
	if err != nil {
		t.Fatalf("Worklist after replace: %v", err)
	}
	if len(ids) != 1 || ids[0] != "20" {
		t.Fatalf("expected replaced worklist, got %v", ids)
	}
}

func TestOpenSalvagesCorruptDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	dbPath := filepath.Join(cfg.Paths.LogDir, "checkpoint.db")
	if err := os.WriteFile(dbPath, []byte("this is not a sqlite database"), 0o644); err != nil {
		t.Fatalf("write corrupt db: %v", err)
	}

	store, err := checkpoint.Open(cfg)
	if err != nil {
		t.Fatalf("expected salvage instead of error, got %v", err)
	}
	defer store.Close()

	if store.RecoveredBackup() == "" {
		t.Fatal("expected a recorded backup path for the corrupt file")
	}
	if _, err := os.Stat(store.RecoveredBackup()); err != nil {
		t.Fatalf("expected corrupt file preserved at backup path: %v", err)
	}

	snapshot, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot on salvaged store: %v", err)
	}
	if len(snapshot.Completed) != 0 || len(snapshot.Failed) != 0 {
		t.Fatalf("expected zero-value state after salvage, got %+v", snapshot)
	}
}
