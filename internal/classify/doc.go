// Package classify decides which container streams survive trimming.
//
// Partition consumes probe-ordered stream descriptors and an allow-list
// filter and produces a total partition into kept and dropped sets. Video
// always survives; audio and subtitles survive when their language tag
// passes the filter; everything else is dropped. Order is preserved end to
// end because downstream mapping arguments are positional.
package classify
