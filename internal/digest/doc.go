// Package digest fingerprints file content for exact-duplicate detection.
//
// A Digest is the MD5 sum of a file's bytes; file names and paths never take
// part in equality. Set tracks the digests seen during one pipeline run and is
// discarded with it.
package digest
