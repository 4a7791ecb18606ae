// Package fileutil holds small filesystem helpers shared by the pipeline
// stages.
package fileutil

import (
	"io"
	"os"
	"path/filepath"
)

// ArtifactReady reports whether path names a regular file of at least
// minBytes. Zero-byte or truncated leftovers from an interrupted run do not
// count as completed artifacts.
func ArtifactReady(path string, minBytes int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	return info.Size() >= minBytes
}

// FindWithExtensions returns the first existing file among base+ext for the
// provided extensions, in order. Extensions include the leading dot.
func FindWithExtensions(base string, exts []string) (string, bool) {
	for _, ext := range exts {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// MoveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems. Parent directories of dst are created.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
