package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"flowpack/internal/cleaner"
	"flowpack/internal/textutil"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean [dir]",
		Short: "Delete numbered copies whose original is present",
		Long: `Walk [dir] (paths.organized_dir by default) and delete every <base>_<N> file
whose <base> sibling exists in the same folder. Matching ignores case.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			recorder, closeRecorder, err := ctx.recorder()
			if err != nil {
				return err
			}
			defer closeRecorder()

			var override string
			if len(args) == 1 {
				override = args[0]
			}
			root, err := resolvePath(override, cfg.Paths.OrganizedDir)
			if err != nil {
				return err
			}

			c := cleaner.New(logger, cleaner.WithRecorder(recorder))
			result, err := c.Run(cmd.Context(), cleaner.Options{
				Root:      root,
				Extension: cfg.Clean.Extension,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}
			writeCleanResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be deleted without deleting")
	return cmd
}

func writeCleanResult(w io.Writer, result cleaner.Result, colorize bool) {
	title := textutil.Ternary(result.DryRun, "Clean (dry run)", "Clean")
	writeLines(w, renderSectionHeader(title, colorize)...)
	fmt.Fprintln(w, renderCounts([]countRow{
		{"Directories scanned", result.Directories},
		{textutil.Ternary(result.DryRun, "Would remove", "Removed"), len(result.Removed)},
		{"Errors", result.Errors},
	}))
	if len(result.Removed) > 0 {
		rows := make([][]string, 0, len(result.Removed))
		for _, r := range result.Removed {
			rows = append(rows, []string{r.Path, r.Kept})
		}
		fmt.Fprintln(w, renderTable([]string{"Copy", "Original"}, rows, nil))
	}
	failures := make([][2]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, [2]string{f.Path, f.Error.Error()})
	}
	writeFailures(w, failures, failureDisplayLimit)
	summary := fmt.Sprintf("%s in %s", textutil.Plural(len(result.Removed), "file"), result.Root)
	writeLines(w, renderStatusLine("Result", errorKind(result.Errors), summary, colorize))
}
