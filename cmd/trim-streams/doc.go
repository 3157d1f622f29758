// Package main hosts the trim-streams CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the processing run itself plus the
// supporting surfaces around it: the outcome history ledger, dependency and
// resource checks, and configuration scaffolding. It centralizes
// configuration resolution and logging setup so subcommands can focus on
// flags and output.
//
// Keep this package lean: selection, orchestration, and verification logic
// belongs in the internal packages and is only surfaced here.
package main
