// Package faults defines the error markers flowpack stages use to classify
// failures.
//
// Stage code wraps a marker with stage and operation context via Wrap so the
// CLI can tell a precondition failure (missing git client, missing path list)
// apart from configuration or validation problems. Per-item failures inside a
// batch are never returned as errors; they are logged and counted by the
// pipeline that observed them.
package faults
