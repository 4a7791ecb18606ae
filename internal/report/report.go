package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gavel/internal/run"
)

// Render formats a run summary for terminal output. The same text is
// persisted by Write so the on-disk record matches what the operator saw.
func Render(summary *run.Summary) string {
	var b strings.Builder

	duration := summary.Finished.Sub(summary.Started).Round(time.Second)
	fmt.Fprintf(&b, "Run %s %s after %s\n", summary.RunID, summary.State, duration)
	fmt.Fprintf(&b, "Processed %d of %d clips\n", len(summary.Completed)+len(summary.Failed), summary.Total)

	if rows := outcomeRows(summary); len(rows) > 0 {
		b.WriteString(renderOutcomeTable(rows))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "completed %d  failed %d  remaining %d\n",
		len(summary.Completed), len(summary.Failed), summary.Remaining())

	if len(summary.Failed) > 0 {
		fmt.Fprintf(&b, "\nRetry failed clips with:\n  gavel run %s\n", strings.Join(summary.FailedIDs(), " "))
	}
	if summary.State == run.StateCancelled && summary.Remaining() > 0 {
		b.WriteString("\nResume the interrupted run with:\n  gavel run --resume\n")
	}

	return b.String()
}

func outcomeRows(summary *run.Summary) [][3]string {
	rows := make([][3]string, 0, len(summary.Completed)+len(summary.Failed))
	for _, clipID := range summary.Completed {
		rows = append(rows, [3]string{clipID, "completed", ""})
	}
	for _, failed := range summary.Failed {
		rows = append(rows, [3]string{failed.ClipID, "failed", failed.Reason})
	}
	return rows
}

// Write persists the rendered summary as summary-<runid>.txt under dir and
// returns the path written.
func Write(dir string, summary *run.Summary) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("summary-%s.txt", summary.RunID))
	if err := os.WriteFile(path, []byte(Render(summary)), 0o644); err != nil {
		return "", fmt.Errorf("write run summary: %w", err)
	}
	return path, nil
}
