package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"flowpack/internal/organizer"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var listPath string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Copy listed workflow files into a categorized tree",
		Long: `Read the path list and copy each workflow file into a category folder under
the organized directory. Generically named files take their parent folder's
name, and collisions get a _N suffix.`,
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

			list, err := resolvePath(listPath, cfg.Paths.ListFile)
			if err != nil {
				return err
			}
			output, err := resolvePath(outputDir, cfg.Paths.OrganizedDir)
			if err != nil {
				return err
			}

			org := organizer.New(logger, organizer.WithRecorder(recorder))
			result, err := org.RunFile(cmd.Context(), list, organizer.Options{
				OutputDir:     output,
				Table:         cfg.OrganizeTable(),
				Extensions:    cfg.Organize.Extensions,
				GenericNames:  cfg.Organize.GenericNames,
				ProgressEvery: cfg.Organize.ProgressEvery,
			})
			if err != nil {
				return err
			}
			writeOrganizeResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&listPath, "list", "l", "", "Override paths.list_file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Override paths.organized_dir")
	return cmd
}

func writeOrganizeResult(w io.Writer, result organizer.Result, colorize bool) {
	writeLines(w, renderSectionHeader("Organize", colorize)...)
	fmt.Fprintln(w, renderCounts([]countRow{
		{"Paths listed", result.Listed},
		{"Organized", result.Organized},
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
