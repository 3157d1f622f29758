package ffmpegcmd

import (
	"strconv"

	"github.com/ZuidVolt/trim-streams/internal/classify"
)

// BuildArgs translates a classification result into the ffmpeg argument list
// that produces the trimmed copy.
//
// The list is deterministic for identical inputs: one -map per kept
// descriptor in kept order, each referencing the stream's original container
// index. Dropped streams are excluded purely by omission. When copyStreams
// is set a copy codec is applied to every mapped stream; ffmpeg fails fast
// on container/codec combinations that cannot be copied, and that failure is
// surfaced rather than downgraded to a re-encode. Without copyStreams the
// tool's default re-encode path applies. -y confirms overwriting the
// destination, which is always the final argument.
func BuildArgs(result classify.Result, copyStreams bool, source, dest string) []string {
	args := make([]string, 0, 8+2*len(result.Kept))
	args = append(args, "-hide_banner", "-nostdin", "-i", source)
	for _, stream := range result.Kept {
		args = append(args, "-map", "0:"+strconv.Itoa(stream.Index))
	}
	if copyStreams {
		args = append(args, "-c", "copy")
	}
	args = append(args, "-y", dest)
	return args
}
