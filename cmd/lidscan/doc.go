// Package main hosts the lidscan CLI entrypoint and command graph.
//
// The Cobra-based command tree runs extractions, inspects the resulting
// snapshot, answers phone-to-LID and owner checks against it, and scaffolds
// configuration. It centralizes configuration resolution and logging setup so
// subcommands stay focused on presentation.
//
// Keep this package lean: new behavior belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
