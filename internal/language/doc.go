// Package language implements allow-list matching and normalization for
// stream language tags.
//
// Matching is deliberately literal: a tag must appear verbatim (after
// case-folding) in the allow-list, so "eng" and "en" are distinct tokens
// and the defaults carry both. The only policy encoded here is how the
// empty cases behave: an empty allow-list keeps everything, and an
// untagged stream is kept only under an empty allow-list.
package language
