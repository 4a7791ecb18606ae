package workset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gavel/internal/checkpoint"
	"gavel/internal/services"
)

// Mode selects how the work set is sourced.
type Mode string

const (
	ModeExplicit Mode = "explicit"
	ModeFromFile Mode = "from-file"
	ModeResume   Mode = "resume"
)

// Request captures the invocation shape.
type Request struct {
	ClipIDs  []string
	FromFile string
	Resume   bool
}

// Mode derives the resolution mode, rejecting ambiguous combinations.
func (r Request) Mode() (Mode, error) {
	modes := 0
	if len(r.ClipIDs) > 0 {
		modes++
	}
	if r.FromFile != "" {
		modes++
	}
	if r.Resume {
		modes++
	}
	switch {
	case modes == 0:
		return "", services.Wrap(services.ErrValidation, "workset", "",
			"no clips given: pass clip ids, --from-file, or --resume", nil)
	case modes > 1:
		return "", services.Wrap(services.ErrValidation, "workset", "",
			"clip ids, --from-file, and --resume are mutually exclusive", nil)
	case len(r.ClipIDs) > 0:
		return ModeExplicit, nil
	case r.FromFile != "":
		return ModeFromFile, nil
	default:
		return ModeResume, nil
	}
}

// Resolve computes the ordered outstanding work set. In explicit and
// from-file modes the full list (before subtracting completed clips) is
// persisted as the worklist so a later resume knows what outstanding means.
// An empty source list is a hard error; a fully completed one is not.
func Resolve(ctx context.Context, req Request, store *checkpoint.Store) ([]string, error) {
	mode, err := req.Mode()
	if err != nil {
		return nil, err
	}

	var full []string
	switch mode {
	case ModeExplicit:
		full = dedupe(req.ClipIDs)
		if len(full) == 0 {
			return nil, services.Wrap(services.ErrValidation, "workset", "",
				"explicit clip list is empty", nil)
		}
	case ModeFromFile:
		full, err = LoadIDFile(req.FromFile)
		if err != nil {
			return nil, err
		}
	case ModeResume:
		full, err = store.Worklist(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stored worklist: %w", err)
		}
		if len(full) == 0 {
			return nil, services.Wrap(services.ErrValidation, "workset", "",
				"nothing to resume from: no prior worklist is stored (run with clip ids or --from-file first)", nil)
		}
	}

	if mode != ModeResume {
		if err := store.ReplaceWorklist(ctx, full); err != nil {
			return nil, fmt.Errorf("persist worklist: %w", err)
		}
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint snapshot: %w", err)
	}
	completed := snapshot.CompletedSet()

	outstanding := make([]string, 0, len(full))
	for _, clipID := range full {
		if _, done := completed[clipID]; done {
			continue
		}
		outstanding = append(outstanding, clipID)
	}
	return outstanding, nil
}

// LoadIDFile reads a JSON array of clip ids. Numeric entries are accepted
// and rendered as their literal text, matching the scraper's output.
func LoadIDFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrValidation, "workset", "",
				fmt.Sprintf("id file %s not found", path), nil)
		}
		return nil, services.Wrap(services.ErrValidation, "workset", "",
			fmt.Sprintf("read id file %s", path), err)
	}

	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	var raw []any
	if err := decoder.Decode(&raw); err != nil {
		return nil, services.Wrap(services.ErrValidation, "workset", "",
			fmt.Sprintf("id file %s is not a JSON array", path), err)
	}

	ids := make([]string, 0, len(raw))
	for i, entry := range raw {
		switch v := entry.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				ids = append(ids, trimmed)
			}
		case json.Number:
			ids = append(ids, v.String())
		default:
			return nil, services.Wrap(services.ErrValidation, "workset", "",
				fmt.Sprintf("id file %s entry %d is not a string or number", path, i), nil)
		}
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, services.Wrap(services.ErrValidation, "workset", "",
			fmt.Sprintf("id file %s contains no clip ids", path), nil)
	}
	return ids, nil
}

// dedupe preserves first occurrence order while dropping repeats and blanks.
func dedupe(clipIDs []string) []string {
	seen := make(map[string]struct{}, len(clipIDs))
	out := make([]string, 0, len(clipIDs))
	for _, clipID := range clipIDs {
		clipID = strings.TrimSpace(clipID)
		if clipID == "" {
			continue
		}
		if _, dup := seen[clipID]; dup {
			continue
		}
		seen[clipID] = struct{}{}
		out = append(out, clipID)
	}
	return out
}
