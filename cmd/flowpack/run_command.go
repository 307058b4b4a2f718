package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowpack/internal/acquire"
	"flowpack/internal/faults"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipAcquire bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Acquire sources, then merge and stage the scratch area",
		Long: `Run acquisition followed by merge-and-stage.

A missing git client is reported and acquisition is skipped; the merge still
runs over whatever the scratch area already holds.`,
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

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if !skipAcquire {
				sources := acquire.ParseSources(cfg.Acquire.Sources)
				result, err := runAcquire(cmd.Context(), cfg, logger, recorder, sources, cfg.Paths.ScratchDir)
				switch {
				case faults.IsPrecondition(err):
					writeLines(out, renderStatusLine("Acquire", statusWarn, "skipped: "+err.Error(), colorize))
				case err != nil:
					return err
				default:
					writeAcquireResult(out, result, colorize)
				}
			}

			result, err := runMerge(cmd.Context(), cfg, logger, recorder, cfg.Paths.ScratchDir, cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("merge: %w", err)
			}
			writeMergeResult(out, result, colorize)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipAcquire, "skip-acquire", false, "Merge the scratch area without cloning")
	return cmd
}
