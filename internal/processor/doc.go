// Package processor orchestrates the per-file trim workflow and the batch
// worker pool above it.
//
// One file moves through probe → classify → build command → execute →
// optional verify, strictly in order and without retries. Every failure kind
// is captured into the file's Outcome; nothing escapes Process. Batches run
// files in parallel under a bounded pool, aggregate one Outcome per file,
// and optionally persist them through a Recorder.
package processor
