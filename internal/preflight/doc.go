// Package preflight provides readiness checks for the filesystem paths and
// contact store that an extraction run depends on. The "lidscan doctor"
// command runs RunAll and renders each Result.
package preflight
