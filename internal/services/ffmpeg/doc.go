// Package ffmpeg runs the external media tool.
//
// The Executor interface is the narrow seam the orchestrator is tested
// through: run a binary with arguments, stream its output lines, report the
// exit status. Client adds the per-invocation timeout and keeps a tail of
// diagnostic output for error reporting.
package ffmpeg
