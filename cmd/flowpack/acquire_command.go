package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"flowpack/internal/acquire"
	"flowpack/internal/config"
	"flowpack/internal/history"
)

func newAcquireCommand(ctx *commandContext) *cobra.Command {
	var sourcesFile string
	var scratchDir string
	var depth int

	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Clone source repositories into the scratch area",
		Long: `Clone each configured source repository into the scratch area.

Sources already present under the scratch directory are skipped. Failed clones
are reported and the remaining sources are still attempted.`,
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

			sources := acquire.ParseSources(cfg.Acquire.Sources)
			if sourcesFile != "" {
				path, err := resolvePath(sourcesFile, "")
				if err != nil {
					return err
				}
				if sources, err = acquire.ReadSources(path); err != nil {
					return err
				}
			}
			scratch, err := resolvePath(scratchDir, cfg.Paths.ScratchDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("depth") {
				cfg.Acquire.CloneDepth = depth
			}

			result, err := runAcquire(cmd.Context(), cfg, logger, recorder, sources, scratch)
			writeAcquireResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
			return err
		},
	}

	cmd.Flags().StringVar(&sourcesFile, "sources-file", "", "Read source references from a file, one per line")
	cmd.Flags().StringVar(&scratchDir, "scratch", "", "Override paths.scratch_dir")
	cmd.Flags().IntVar(&depth, "depth", 0, "Shallow clone depth (0 clones full history)")
	return cmd
}

func runAcquire(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder history.Recorder, sources []acquire.Source, scratch string) (acquire.Result, error) {
	acq := acquire.New(acquire.Options{
		GitBinary:    cfg.Acquire.GitBinary,
		GitFallbacks: cfg.Acquire.GitFallbacks,
		CloneDepth:   cfg.Acquire.CloneDepth,
	}, logger, acquire.WithRecorder(recorder))
	return acq.Run(ctx, sources, scratch)
}

func writeAcquireResult(w io.Writer, result acquire.Result, colorize bool) {
	if result.RunID == "" {
		return
	}
	writeLines(w, renderSectionHeader("Acquire", colorize)...)
	fmt.Fprintln(w, renderCounts([]countRow{
		{"Cloned", len(result.Cloned)},
		{"Already present", len(result.Skipped)},
		{"Failed", len(result.Failed)},
	}))
	failures := make([][2]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failures = append(failures, [2]string{f.Source.Ref, f.Err.Error()})
	}
	writeFailures(w, failures, failureDisplayLimit)
	writeLines(w, renderStatusLine("Scratch", errorKind(len(result.Failed)), result.ScratchDir, colorize))
}
