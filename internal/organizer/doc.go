// Package organizer copies a list of workflow files into a categorized tree,
// renaming files whose names carry no meaning.
//
// Input is a path list rather than a directory walk. A file named like one of
// the configured generic names (template.json, workflow.json, ...) takes its
// parent folder's name instead, and the resulting base name selects the
// category. Name collisions inside a category get a "_1", "_2", ... suffix.
//
// Missing paths and paths with other extensions are skipped without comment;
// a stale list is normal. Any other per-file problem is logged, counted, and
// the run moves on.
package organizer
