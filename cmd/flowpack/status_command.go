package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowpack/internal/history"
	"flowpack/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check dependencies, paths, and run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeLines(out, renderSectionHeader("Dependencies", colorize)...)
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				switch {
				case dep.Available:
					writeLines(out, renderStatusLine(dep.Name, statusOK, dep.Command, colorize))
				case dep.Optional:
					writeLines(out, renderStatusLine(dep.Name, statusWarn, dep.Detail, colorize))
				default:
					writeLines(out, renderStatusLine(dep.Name, statusError, dep.Detail, colorize))
				}
			}

			fmt.Fprintln(out)
			writeLines(out, renderSectionHeader("Paths", colorize)...)
			for _, check := range preflight.RunAll(cfg) {
				kind := statusOK
				if !check.Passed {
					kind = statusWarn
				}
				writeLines(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}

			fmt.Fprintln(out)
			writeLines(out, renderSectionHeader("History", colorize)...)
			path := cfg.HistoryPath()
			if path == "" {
				writeLines(out, renderStatusLine("Enabled", statusInfo, yesNo(false), colorize))
				return nil
			}
			writeLines(out, renderStatusLine("Enabled", statusInfo, yesNo(true), colorize))
			store, err := history.Open(path)
			if err != nil {
				writeLines(out, renderStatusLine("Database", statusError, err.Error(), colorize))
				return nil
			}
			defer store.Close()
			writeLines(out, renderStatusLine("Database", statusOK, store.Path(), colorize))
			runs, err := store.ListRuns(cmd.Context(), 1)
			switch {
			case err != nil:
				writeLines(out, renderStatusLine("Last run", statusError, err.Error(), colorize))
			case len(runs) == 0:
				writeLines(out, renderStatusLine("Last run", statusInfo, "none", colorize))
			default:
				last := runs[0]
				kind := statusOK
				if last.Status == history.StatusFailed {
					kind = statusWarn
				}
				msg := fmt.Sprintf("%s %s %s (%s)", string(last.Pipeline), shortID(last.ID), string(last.Status), last.StartedAt.Local().Format("2006-01-02 15:04"))
				writeLines(out, renderStatusLine("Last run", kind, msg, colorize))
			}
			return nil
		},
	}
}
