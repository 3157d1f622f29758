// Package scan expands a CLI input path into the batch of media files to
// process and computes mirrored destination paths under the output
// subdirectory.
package scan
