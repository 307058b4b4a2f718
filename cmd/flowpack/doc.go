// Package main hosts the flowpack CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the acquisition,
// merge, organize, and cleanup pipelines, plus history browsing, readiness
// checks, and configuration scaffolding. It centralizes configuration
// resolution, logger construction, and history wiring so subcommands only
// translate flags into pipeline options and render the result.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
