package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"gavel/internal/fileutil"
	"gavel/internal/testsupport"
)

func TestArtifactReady(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.vtt")
	if fileutil.ArtifactReady(missing, 1) {
		t.Fatal("missing file should not be ready")
	}

	empty := filepath.Join(dir, "empty.vtt")
	testsupport.WriteFile(t, empty, nil)
	if fileutil.ArtifactReady(empty, 1) {
		t.Fatal("zero-byte file should not be ready")
	}

	full := filepath.Join(dir, "full.vtt")
	testsupport.WriteFile(t, full, []byte("WEBVTT\n\n00:00.000 --> 00:05.000\nhello\n"))
	if !fileutil.ArtifactReady(full, 16) {
		t.Fatal("expected non-trivial file to be ready")
	}
	if fileutil.ArtifactReady(full, 1<<20) {
		t.Fatal("file below the minimum size should not be ready")
	}

	if fileutil.ArtifactReady(dir, 0) {
		t.Fatal("directory should not be ready")
	}
}

func TestFindWithExtensions(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "clip_42")
	testsupport.WriteFile(t, base+".webm", []byte("media"))

	path, ok := fileutil.FindWithExtensions(base, []string{".mp4", ".mkv", ".webm"})
	if !ok || path != base+".webm" {
		t.Fatalf("expected webm match, got %q ok=%v", path, ok)
	}

	if _, ok := fileutil.FindWithExtensions(base, []string{".avi"}); ok {
		t.Fatal("expected no match for absent extension")
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "nested", "dst.json")
	testsupport.WriteFile(t, src, []byte(`{"id":"42"}`))

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read moved file: %v", err)
	}
	if string(data) != `{"id":"42"}` {
		t.Fatalf("unexpected contents %q", data)
	}
}
