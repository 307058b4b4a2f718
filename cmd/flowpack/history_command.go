package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowpack/internal/history"
)

var errHistoryDisabled = errors.New("run history is disabled (history.enabled = false)")

type runView struct {
	ID         string         `json:"id"`
	Pipeline   string         `json:"pipeline"`
	Status     string         `json:"status"`
	SourceRoot string         `json:"source_root,omitempty"`
	OutputRoot string         `json:"output_root,omitempty"`
	Summary    map[string]int `json:"summary"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Files      []fileView     `json:"files,omitempty"`
}

type fileView struct {
	Action     string `json:"action"`
	SourcePath string `json:"source_path,omitempty"`
	DestPath   string `json:"dest_path,omitempty"`
	Category   string `json:"category,omitempty"`
	Digest     string `json:"digest,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

func newRunView(run history.Run) runView {
	view := runView{
		ID:         run.ID,
		Pipeline:   string(run.Pipeline),
		Status:     string(run.Status),
		SourceRoot: run.SourceRoot,
		OutputRoot: run.OutputRoot,
		Summary:    run.Summary,
		Error:      run.ErrorMessage,
		StartedAt:  run.StartedAt,
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt
		view.FinishedAt = &finished
	}
	return view
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded pipeline runs",
		Long: `List recent runs, newest first. Pass a run id (or a unique prefix of one)
to show that run's file-level records.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.HistoryPath()
			if path == "" {
				return errHistoryDisabled
			}
			store, err := history.Open(path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				files, err := store.RunFiles(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				view := newRunView(*run)
				for _, f := range files {
					view.Files = append(view.Files, fileView{
						Action:     string(f.Action),
						SourcePath: f.SourcePath,
						DestPath:   f.DestPath,
						Category:   f.Category,
						Digest:     f.Digest,
						Detail:     f.Detail,
					})
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				writeRunDetail(cmd.OutOrStdout(), *run, view.Files)
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newRunView(run))
				}
				return writeJSON(cmd, views)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					string(run.Pipeline),
					string(run.Status),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatDuration(run.Duration()),
					formatSummary(run.Summary),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Pipeline", "Status", "Started", "Duration", "Summary"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func formatSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, summary[k]))
	}
	return strings.Join(parts, " ")
}

func writeRunDetail(w io.Writer, run history.Run, files []fileView) {
	fmt.Fprintf(w, "Run:      %s\n", run.ID)
	fmt.Fprintf(w, "Pipeline: %s\n", run.Pipeline)
	fmt.Fprintf(w, "Status:   %s\n", run.Status)
	if run.SourceRoot != "" {
		fmt.Fprintf(w, "Source:   %s\n", run.SourceRoot)
	}
	if run.OutputRoot != "" {
		fmt.Fprintf(w, "Output:   %s\n", run.OutputRoot)
	}
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(run.Duration()))
	fmt.Fprintf(w, "Summary:  %s\n", formatSummary(run.Summary))
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:    %s\n", run.ErrorMessage)
	}
	if len(files) == 0 {
		return
	}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		detail := f.Detail
		if detail == "" {
			detail = f.Category
		}
		rows = append(rows, []string{f.Action, f.SourcePath, f.DestPath, detail})
	}
	fmt.Fprintln(w, renderTable([]string{"Action", "Source", "Destination", "Detail"}, rows, nil))
}
