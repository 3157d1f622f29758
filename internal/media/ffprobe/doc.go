// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties with tags
//
// The Prober interface is the seam the orchestrator and verifier depend on;
// CommandProber is the real implementation that shells out to the binary.
package ffprobe
