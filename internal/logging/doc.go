// Package logging wires structured slog output for the CLI.
//
// Two formats are supported: a compact console handler for interactive use
// and JSON for machine consumption. Log lines can be teed to a file under
// the configured log directory. ContextFields/WithContext pull the source
// path, stage, and correlation id stamped by the services package so every
// per-file log line carries consistent fields.
package logging
