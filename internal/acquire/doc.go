// Package acquire clones source repositories into the scratch area.
//
// Each source lands in "<scratch>/<name>" where name is derived from the last
// path segment of the reference. Destinations that already exist are skipped,
// so re-running acquisition only fetches what is missing. A failed clone is
// logged and recorded; the remaining sources are still attempted.
//
// The git client must resolve before any source is processed. A missing
// client aborts the run with a faults.ErrPrecondition error.
package acquire
