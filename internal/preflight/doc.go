// Package preflight validates external dependencies and system resources
// before a run: the ffmpeg/ffprobe binaries must exist on PATH, and low
// memory or disk space produces warnings without aborting.
package preflight
