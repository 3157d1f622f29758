package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZuidVolt/trim-streams/internal/language"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Language returns the stream's normalized language tag, or empty when the
// container carries none.
func (s Stream) Language() string {
	return language.ExtractFromTags(s.Tags)
}

// CountByType returns the number of streams whose codec type matches.
func (r Result) CountByType(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			count++
		}
	}
	return count
}

// Prober abstracts metadata extraction so orchestration and verification can
// be tested without invoking the real binary.
type Prober interface {
	Inspect(ctx context.Context, path string) (Result, error)
}

// CommandProber runs the ffprobe binary.
type CommandProber struct {
	Binary string
}

// NewCommandProber returns a Prober backed by the given ffprobe binary name.
func NewCommandProber(binary string) CommandProber {
	return CommandProber{Binary: strings.TrimSpace(binary)}
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func (p CommandProber) Inspect(ctx context.Context, path string) (Result, error) {
	binary := p.Binary
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}
