package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZuidVolt/trim-streams/internal/classify"
	"github.com/ZuidVolt/trim-streams/internal/media/ffprobe"
	"github.com/ZuidVolt/trim-streams/internal/services"
)

type fakeProber struct {
	results map[string]ffprobe.Result
	errs    map[string]error
}

func (f *fakeProber) Inspect(_ context.Context, path string) (ffprobe.Result, error) {
	if err, ok := f.errs[path]; ok {
		return ffprobe.Result{}, err
	}
	return f.results[path], nil
}

// fakeTranscoder mimics ffmpeg: on success it writes the destination (the
// final argument); on failure it can leave a partial file behind.
type fakeTranscoder struct {
	err          error
	leavePartial bool
	gotArgs      [][]string
}

func (f *fakeTranscoder) Transcode(_ context.Context, args []string) error {
	f.gotArgs = append(f.gotArgs, args)
	dest := args[len(args)-1]
	if f.err != nil {
		if f.leavePartial {
			_ = os.WriteFile(dest, []byte("partial"), 0o644)
		}
		return f.err
	}
	return os.WriteFile(dest, []byte("trimmed"), 0o644)
}

func sourceProbe() ffprobe.Result {
	return ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 0, CodecType: "video", CodecName: "h264"},
		{Index: 1, CodecType: "audio", CodecName: "aac", Tags: map[string]string{"language": "eng"}},
		{Index: 2, CodecType: "audio", CodecName: "aac", Tags: map[string]string{"language": "fra"}},
		{Index: 3, CodecType: "subtitle", CodecName: "srt", Tags: map[string]string{"language": "eng"}},
	}}
}

func trimmedProbe() ffprobe.Result {
	return ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio"},
		{Index: 2, CodecType: "subtitle"},
	}}
}

func englishFilter() classify.Filter {
	return classify.Filter{AudioLangs: []string{"eng"}, SubtitleLangs: []string{"eng"}}
}

func newProcessor(t *testing.T, opts Options) *Processor {
	t.Helper()
	proc, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return proc
}

func paths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "in.mkv"), filepath.Join(dir, "processed", "in.mkv")
}

func TestProcessSucceedsAndVerifies(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{results: map[string]ffprobe.Result{
		source: sourceProbe(),
		dest:   trimmedProbe(),
	}}
	transcoder := &fakeTranscoder{}
	proc := newProcessor(t, Options{
		Prober: prober, Transcoder: transcoder,
		Filter: englishFilter(), CopyStreams: true, VerifyOutput: true,
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusVerified {
		t.Fatalf("expected verified, got %s (err=%v)", outcome.Status, outcome.Err)
	}
	if outcome.Verified == nil || !*outcome.Verified {
		t.Fatalf("expected verified=true, got %v", outcome.Verified)
	}
	if !outcome.Success() {
		t.Fatalf("expected success")
	}
	if len(transcoder.gotArgs) != 1 {
		t.Fatalf("expected one transcode call, got %d", len(transcoder.gotArgs))
	}
	args := transcoder.gotArgs[0]
	joined := strings.Join(args, " ")
	for _, fragment := range []string{"-map 0:0", "-map 0:1", "-map 0:3", "-c copy"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args %v", fragment, args)
		}
	}
	if strings.Contains(joined, "0:2") {
		t.Fatalf("dropped stream mapped: %v", args)
	}
}

func TestProcessNoVerifyLeavesVerifiedUnset(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{results: map[string]ffprobe.Result{source: sourceProbe()}}
	proc := newProcessor(t, Options{
		Prober: prober, Transcoder: &fakeTranscoder{},
		Filter: englishFilter(), CopyStreams: true, VerifyOutput: false,
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", outcome.Status)
	}
	if outcome.Verified != nil {
		t.Fatalf("expected verified unset, got %v", *outcome.Verified)
	}
}

func TestProcessSkipsExistingDestination(t *testing.T) {
	source, dest := paths(t)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(dest, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	transcoder := &fakeTranscoder{}
	proc := newProcessor(t, Options{
		Prober: &fakeProber{}, Transcoder: transcoder, VerifyOutput: true,
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusSkipped || !outcome.Success() {
		t.Fatalf("expected successful skip, got %s", outcome.Status)
	}
	if len(transcoder.gotArgs) != 0 {
		t.Fatalf("transcoder should not run for skipped file")
	}
}

func TestProcessOverwriteReprocesses(t *testing.T) {
	source, dest := paths(t)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(dest, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	prober := &fakeProber{results: map[string]ffprobe.Result{source: sourceProbe()}}
	proc := newProcessor(t, Options{
		Prober: prober, Transcoder: &fakeTranscoder{},
		Filter: englishFilter(), Overwrite: true,
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s (err=%v)", outcome.Status, outcome.Err)
	}
}

func TestProcessProbeFailure(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{errs: map[string]error{source: errors.New("Invalid data found")}}
	proc := newProcessor(t, Options{Prober: prober, Transcoder: &fakeTranscoder{}})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if !errors.Is(outcome.Err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", outcome.Err)
	}
}

func TestProcessRejectsInputWithoutVideo(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{results: map[string]ffprobe.Result{source: {Streams: []ffprobe.Stream{
		{Index: 0, CodecType: "audio", Tags: map[string]string{"language": "eng"}},
	}}}}
	proc := newProcessor(t, Options{Prober: prober, Transcoder: &fakeTranscoder{}, Filter: englishFilter()})

	outcome := proc.Process(context.Background(), source, dest)
	if !errors.Is(outcome.Err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", outcome.Err)
	}
}

func TestProcessOnlyVideoIsSuccessWithNote(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{results: map[string]ffprobe.Result{
		source: {Streams: []ffprobe.Stream{
			{Index: 0, CodecType: "video"},
			{Index: 1, CodecType: "audio", Tags: map[string]string{"language": "deu"}},
		}},
		dest: {Streams: []ffprobe.Stream{{Index: 0, CodecType: "video"}}},
	}}
	proc := newProcessor(t, Options{
		Prober: prober, Transcoder: &fakeTranscoder{},
		Filter: englishFilter(), CopyStreams: true, VerifyOutput: true,
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusVerified {
		t.Fatalf("expected verified, got %s (err=%v)", outcome.Status, outcome.Err)
	}
	if !strings.Contains(outcome.Note, "video only") {
		t.Fatalf("expected informational note, got %q", outcome.Note)
	}
}

func TestProcessExecutionFailureCleansDestination(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{results: map[string]ffprobe.Result{source: sourceProbe()}}
	transcoder := &fakeTranscoder{err: errors.New("exit status 1"), leavePartial: true}
	proc := newProcessor(t, Options{
		Prober: prober, Transcoder: transcoder, Filter: englishFilter(),
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if !errors.Is(outcome.Err, services.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", outcome.Err)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected partial destination removed, stat err=%v", err)
	}
}

func TestProcessVerifyFailureRetainsOutput(t *testing.T) {
	source, dest := paths(t)
	prober := &fakeProber{
		results: map[string]ffprobe.Result{
			source: sourceProbe(),
			// Output missing the subtitle stream.
			dest: {Streams: []ffprobe.Stream{
				{Index: 0, CodecType: "video"},
				{Index: 1, CodecType: "audio"},
			}},
		},
	}
	proc := newProcessor(t, Options{
		Prober: prober, Transcoder: &fakeTranscoder{},
		Filter: englishFilter(), CopyStreams: true, VerifyOutput: true,
	})

	outcome := proc.Process(context.Background(), source, dest)
	if outcome.Status != StatusVerifyFailed {
		t.Fatalf("expected verify_failed, got %s", outcome.Status)
	}
	if outcome.Verified == nil || *outcome.Verified {
		t.Fatalf("expected verified=false, got %v", outcome.Verified)
	}
	if !errors.Is(outcome.Err, services.ErrVerification) {
		t.Fatalf("expected ErrVerification, got %v", outcome.Err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected output retained for inspection: %v", err)
	}
	if outcome.Success() {
		t.Fatalf("verify_failed must not count as success")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Options{Transcoder: &fakeTranscoder{}}); err == nil {
		t.Fatalf("expected error without prober")
	}
	if _, err := New(Options{Prober: &fakeProber{}}); err == nil {
		t.Fatalf("expected error without transcoder")
	}
}
