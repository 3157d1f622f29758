// Package services defines shared utilities consumed by the processing
// pipeline and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp source paths, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent outcome statuses (probe vs processing vs verification).
//   - A thin command-execution abstraction (see the ffmpeg subpackage) so
//     orchestration logic is testable without real external binaries.
package services
