// Package config loads, normalizes, and validates flowpack configuration data.
//
// It supplies repository defaults (including both category vocabularies and
// the built-in source list), expands user paths, reads TOML files, and honours
// environment fallbacks such as FLOWPACK_GIT_BINARY. The Config type is handed
// to each pipeline invocation explicitly; nothing in flowpack reads global
// settings.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, lower-cased keywords, and clear validation errors.
package config
