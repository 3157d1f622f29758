package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZuidVolt/trim-streams/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and system resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			workDir, err := os.Getwd()
			if err != nil {
				return err
			}

			checks := preflight.Run(
				cfg.Tools.FFmpegBinary, cfg.Tools.FFprobeBinary,
				workDir, cfg.Resources.MinMemoryGiB, cfg.Resources.MinFreeDiskGiB,
			)

			colorize := stdoutIsTerminal()
			rows := make([][]string, 0, len(checks))
			for _, check := range checks {
				rows = append(rows, []string{
					check.Name,
					checkStateCell(check, colorize),
					check.Detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"}, rows, nil))

			if failure, found := preflight.FatalFailure(checks); found {
				return fmt.Errorf("missing required dependency: %s", failure.Name)
			}
			return nil
		},
	}
}

func checkStateCell(check preflight.Result, colorize bool) string {
	switch {
	case check.Passed:
		if colorize {
			return ansiGreen + "OK" + ansiReset
		}
		return "OK"
	case check.Fatal:
		if colorize {
			return ansiRed + "MISSING" + ansiReset
		}
		return "MISSING"
	default:
		if colorize {
			return ansiYellow + "WARN" + ansiReset
		}
		return "WARN"
	}
}
