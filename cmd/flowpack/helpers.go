package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"flowpack/internal/config"
)

// resolvePath expands a flag override, falling back to the configured value.
func resolvePath(override, fallback string) (string, error) {
	value := strings.TrimSpace(override)
	if value == "" {
		return fallback, nil
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", value, err)
	}
	return expanded, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func categoryRows(categories map[string]int) [][]string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprintf("%d", categories[name])})
	}
	return rows
}

func writeCategories(w io.Writer, categories map[string]int) {
	if len(categories) == 0 {
		return
	}
	fmt.Fprintln(w, renderTable([]string{"Category", "Files"}, categoryRows(categories), []columnAlignment{alignLeft, alignRight}))
}

// writeFailures prints one line per failed item, capped at limit.
func writeFailures(w io.Writer, failures [][2]string, limit int) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "Failures:")
	for i, f := range failures {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "  ... and %d more (see log)\n", len(failures)-limit)
			return
		}
		fmt.Fprintf(w, "  %s: %s\n", f[0], f[1])
	}
}

const failureDisplayLimit = 20
