package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"flowpack/internal/config"
	"flowpack/internal/history"
	"flowpack/internal/merge"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var scratchDir string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Deduplicate, classify, and stage workflow files from the scratch area",
		Long: `Walk the scratch area, keep only well-formed workflow files, drop content
duplicates, and copy each unique file into a category folder under the staging
directory. Name collisions get a numeric prefix; nothing is overwritten.`,
		Args: cobra.NoArgs,
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

			scratch, err := resolvePath(scratchDir, cfg.Paths.ScratchDir)
			if err != nil {
				return err
			}
			output, err := resolvePath(outputDir, cfg.Paths.StagingDir)
			if err != nil {
				return err
			}

			result, err := runMerge(cmd.Context(), cfg, logger, recorder, scratch, output)
			if err != nil {
				return err
			}
			writeMergeResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVar(&scratchDir, "scratch", "", "Override paths.scratch_dir")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Override paths.staging_dir")
	return cmd
}

func runMerge(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder history.Recorder, scratch, output string) (merge.Result, error) {
	pipeline := merge.New(logger, merge.WithRecorder(recorder))
	return pipeline.Run(ctx, merge.Options{
		ScratchDir: scratch,
		OutputDir:  output,
		Table:      cfg.MergeTable(),
		Extensions: cfg.Merge.Extensions,
	})
}

func writeMergeResult(w io.Writer, result merge.Result, colorize bool) {
	writeLines(w, renderSectionHeader("Merge", colorize)...)
	fmt.Fprintln(w, renderCounts([]countRow{
		{"Files scanned", result.Scanned},
		{"Unique staged", result.Staged},
		{"Duplicates skipped", result.Duplicates},
		{"Invalid skipped", result.Skipped},
		{"Errors", result.Errors},
	}))
	writeCategories(w, result.Categories)
	failures := make([][2]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, [2]string{f.Path, f.Error.Error()})
	}
	writeFailures(w, failures, failureDisplayLimit)
	writeLines(w, renderStatusLine("Output", errorKind(result.Errors), result.OutputDir, colorize))
}
