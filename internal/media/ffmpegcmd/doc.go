// Package ffmpegcmd builds the ffmpeg argument list for a trim run from a
// stream classification.
package ffmpegcmd
