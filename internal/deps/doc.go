// Package deps checks that external binaries flowpack shells out to can be
// found, either on PATH or at one of the configured fallback locations.
package deps
