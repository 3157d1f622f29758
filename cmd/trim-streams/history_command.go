package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZuidVolt/trim-streams/internal/history"
	"github.com/ZuidVolt/trim-streams/internal/processor"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No processing history yet.")
				return nil
			}

			colorize := stdoutIsTerminal()
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				detail := entry.Note
				if entry.Error != "" {
					detail = entry.Error
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.SourcePath,
					statusCell(processor.Status(entry.Status), colorize),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "File", "Status", "Detail"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	return cmd
}
