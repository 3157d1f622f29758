// Package verify checks produced files against the classification that was
// used to trim them: presence, non-empty size, probe-ability, and per-type
// stream counts. A verification failure never deletes the output; the file
// is retained for inspection.
package verify
