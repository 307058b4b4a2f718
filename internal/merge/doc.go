// Package merge stages workflow files from the scratch area into a
// categorized, deduplicated output tree.
//
// The pipeline walks the scratch root in lexical order. Files with an allowed
// extension that parse as workflow documents are fingerprinted; the first
// occurrence of each digest is copied to "<output>/<category>/<name>" and later
// ones are counted as duplicates. When the destination name is taken the copy
// is prefixed with the running staged count ("12_flow.json"), and the number is
// bumped until a free name is found, so staged files are never overwritten.
//
// The source tree is never modified. Per-file failures are logged and counted;
// only failures that prevent the run from starting are returned as errors.
package merge
