package classify

import (
	"strings"

	"github.com/ZuidVolt/trim-streams/internal/language"
	"github.com/ZuidVolt/trim-streams/internal/media/ffprobe"
)

// StreamType partitions probed streams into the categories the selection
// rules care about.
type StreamType string

const (
	TypeVideo    StreamType = "video"
	TypeAudio    StreamType = "audio"
	TypeSubtitle StreamType = "subtitle"
	TypeOther    StreamType = "other"
)

// TypeFromCodec maps an ffprobe codec_type value onto a StreamType.
func TypeFromCodec(codecType string) StreamType {
	switch strings.ToLower(strings.TrimSpace(codecType)) {
	case "video":
		return TypeVideo
	case "audio":
		return TypeAudio
	case "subtitle":
		return TypeSubtitle
	default:
		return TypeOther
	}
}

// Descriptor is the immutable per-stream view the selection logic works on.
// Index is the stream's position within the container as assigned by the
// prober; it is what ffmpeg -map arguments reference.
type Descriptor struct {
	Index    int
	Type     StreamType
	Language string
	Codec    string
}

// DescriptorsFromProbe converts probe output into descriptors, preserving
// probe order.
func DescriptorsFromProbe(result ffprobe.Result) []Descriptor {
	descriptors := make([]Descriptor, 0, len(result.Streams))
	for _, stream := range result.Streams {
		descriptors = append(descriptors, Descriptor{
			Index:    stream.Index,
			Type:     TypeFromCodec(stream.CodecType),
			Language: stream.Language(),
			Codec:    stream.CodecName,
		})
	}
	return descriptors
}

// Filter carries the allow-lists applied to audio and subtitle streams.
// Lists are expected to be normalized (see language.NormalizeSet).
type Filter struct {
	AudioLangs    []string
	SubtitleLangs []string
}

// Result is the total partition of one container's streams. Both slices
// preserve original probe order; the command builder relies on that ordering
// when it maps kept descriptors to output stream positions.
type Result struct {
	Kept    []Descriptor
	Dropped []Descriptor
}

// Partition routes every descriptor into exactly one of kept or dropped.
//
// Video streams are always kept. Audio and subtitle streams are kept iff
// their language passes the respective allow-list (an empty list keeps all
// of that type, an untagged stream passes only an empty list). Every other
// stream type is dropped.
func Partition(streams []Descriptor, filter Filter) Result {
	result := Result{
		Kept:    make([]Descriptor, 0, len(streams)),
		Dropped: make([]Descriptor, 0),
	}
	for _, stream := range streams {
		switch stream.Type {
		case TypeVideo:
			result.Kept = append(result.Kept, stream)
		case TypeAudio:
			if language.Matches(stream.Language, filter.AudioLangs) {
				result.Kept = append(result.Kept, stream)
			} else {
				result.Dropped = append(result.Dropped, stream)
			}
		case TypeSubtitle:
			if language.Matches(stream.Language, filter.SubtitleLangs) {
				result.Kept = append(result.Kept, stream)
			} else {
				result.Dropped = append(result.Dropped, stream)
			}
		default:
			result.Dropped = append(result.Dropped, stream)
		}
	}
	return result
}

// KeptByType counts kept descriptors of the given type. The verifier compares
// these counts against a re-probe of the produced file.
func (r Result) KeptByType(streamType StreamType) int {
	count := 0
	for _, stream := range r.Kept {
		if stream.Type == streamType {
			count++
		}
	}
	return count
}

// HasVideo reports whether any kept stream is video.
func (r Result) HasVideo() bool {
	return r.KeptByType(TypeVideo) > 0
}

// OnlyVideo reports whether classification kept no audio and no subtitle
// streams. That is a legal outcome, surfaced to the user as a note rather
// than an error.
func (r Result) OnlyVideo() bool {
	return r.KeptByType(TypeAudio) == 0 && r.KeptByType(TypeSubtitle) == 0
}
