package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gavel/internal/checkpoint"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show checkpoint progress from previous runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := checkpoint.Open(cfg)
			if err != nil {
				return fmt.Errorf("open checkpoint store: %w", err)
			}
			defer store.Close()

			snapshot, err := store.Snapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("read checkpoint: %w", err)
			}
			worklist, err := store.Worklist(cmd.Context())
			if err != nil {
				return fmt.Errorf("read stored worklist: %w", err)
			}

			completed := snapshot.CompletedSet()
			outstanding := 0
			for _, clipID := range worklist {
				if _, done := completed[clipID]; !done {
					outstanding++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checkpoint: %s\n", store.Path())
			fmt.Fprintf(out, "Work list:  %d clips (%d outstanding)\n", len(worklist), outstanding)
			fmt.Fprintf(out, "Completed:  %d\n", len(snapshot.Completed))
			fmt.Fprintf(out, "Failed:     %d\n", len(snapshot.Failed))
			if snapshot.InProgress != "" {
				fmt.Fprintf(out, "In progress: clip %s (previous run did not finish cleanly)\n", snapshot.InProgress)
			}
			if !snapshot.LastUpdated.IsZero() {
				fmt.Fprintf(out, "Last activity: %s\n", snapshot.LastUpdated.Local().Format("2006-01-02 15:04:05"))
			}

			if len(snapshot.Failed) > 0 {
				rows := make([][2]string, 0, len(snapshot.Failed))
				for _, rec := range snapshot.Failed {
					rows = append(rows, [2]string{rec.ClipID, rec.Message})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderFailureTable(rows))
			}
			return nil
		},
	}
}
