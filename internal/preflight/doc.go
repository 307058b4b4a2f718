// Package preflight provides readiness checks for the external tools and
// filesystem paths flowpack depends on.
//
// The CLI "flowpack status" command runs every check and renders the results.
// Pipelines call CheckSystemDeps indirectly through deps.ResolveBinary when
// they need git, so a missing client is reported the same way everywhere.
package preflight
