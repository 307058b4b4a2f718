// Package history records pipeline runs in SQLite.
//
// Every merge, organize, and clean invocation opens a run identified by a
// UUID, records one row per file it staged, skipped as a duplicate, removed,
// or failed on, and closes the run with its summary counters. The CLI reads
// the same store for "flowpack history".
//
// The database is an audit trail, not pipeline state: no stage reads it to
// decide what to do. Schema changes bump schemaVersion in schema.go; users
// delete the database to adopt the new schema.
package history
