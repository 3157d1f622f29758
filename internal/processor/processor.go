package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ZuidVolt/trim-streams/internal/classify"
	"github.com/ZuidVolt/trim-streams/internal/logging"
	"github.com/ZuidVolt/trim-streams/internal/media/ffmpegcmd"
	"github.com/ZuidVolt/trim-streams/internal/media/ffprobe"
	"github.com/ZuidVolt/trim-streams/internal/services"
	"github.com/ZuidVolt/trim-streams/internal/verify"
)

// Transcoder runs the external media tool with a prepared argument list.
// *ffmpeg.Client satisfies it; tests use fakes.
type Transcoder interface {
	Transcode(ctx context.Context, args []string) error
}

// Options assembles a Processor. Prober and Transcoder are required.
type Options struct {
	Prober     ffprobe.Prober
	Transcoder Transcoder
	Filter     classify.Filter
	// CopyStreams selects stream copy over re-encode.
	CopyStreams bool
	// VerifyOutput re-probes produced files.
	VerifyOutput bool
	// Overwrite reprocesses files whose destination already exists instead
	// of skipping them.
	Overwrite bool
	Logger    *slog.Logger
}

// Processor owns the per-file workflow. It is safe for concurrent use: all
// state is read-only after construction.
type Processor struct {
	prober      ffprobe.Prober
	transcoder  Transcoder
	filter      classify.Filter
	copyStreams bool
	verifyOut   bool
	overwrite   bool
	verifier    *verify.Verifier
	logger      *slog.Logger
}

// New validates options and constructs a Processor.
func New(opts Options) (*Processor, error) {
	if opts.Prober == nil {
		return nil, errors.New("processor: prober required")
	}
	if opts.Transcoder == nil {
		return nil, errors.New("processor: transcoder required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		prober:      opts.Prober,
		transcoder:  opts.Transcoder,
		filter:      opts.Filter,
		copyStreams: opts.CopyStreams,
		verifyOut:   opts.VerifyOutput,
		overwrite:   opts.Overwrite,
		verifier:    verify.New(opts.Prober),
		logger:      logger,
	}, nil
}

// Process runs one file through probe → classify → build → execute →
// (verify). It never returns an error: every failure kind is captured in the
// outcome. A failed execution leaves no partial destination file behind; a
// failed verification retains the output for inspection.
func (p *Processor) Process(ctx context.Context, source, dest string) Outcome {
	ctx = services.WithSourcePath(ctx, source)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)

	outcome := Outcome{SourcePath: source, OutputPath: dest, Status: StatusPending}

	if !p.overwrite {
		if _, err := os.Stat(dest); err == nil {
			logger.Info("destination exists, skipping", logging.String("output", dest))
			outcome.Status = StatusSkipped
			outcome.Note = "destination already exists"
			return outcome
		}
	}

	probeResult, err := p.probe(ctx, source)
	if err != nil {
		return p.fail(logger, outcome, err)
	}
	outcome.Status = StatusProbed

	result, note, err := p.classify(probeResult)
	if err != nil {
		return p.fail(logger, outcome, err)
	}
	outcome.Status = StatusClassified
	outcome.Note = note
	logger.Info("streams classified",
		logging.Int("kept", len(result.Kept)),
		logging.Int("dropped", len(result.Dropped)))

	args := ffmpegcmd.BuildArgs(result, p.copyStreams, source, dest)
	outcome.Status = StatusCommandBuilt

	outcome.Status = StatusExecuting
	if err := p.execute(ctx, args, dest); err != nil {
		return p.fail(logger, outcome, err)
	}
	outcome.Status = StatusSucceeded
	logger.Info("transcode complete", logging.String("output", dest))

	if !p.verifyOut {
		return outcome
	}

	outcome.Status = StatusVerifying
	if err := p.verifier.Verify(ctx, dest, result); err != nil {
		verified := false
		outcome.Verified = &verified
		outcome.Status = StatusVerifyFailed
		outcome.Err = err
		// Output retained so the user can inspect it.
		logger.Error("verification failed", logging.Error(err))
		return outcome
	}
	verified := true
	outcome.Verified = &verified
	outcome.Status = StatusVerified
	logger.Info("output verified")
	return outcome
}

func (p *Processor) probe(ctx context.Context, source string) (ffprobe.Result, error) {
	ctx = services.WithStage(ctx, "probing")
	result, err := p.prober.Inspect(ctx, source)
	if err != nil {
		return ffprobe.Result{}, services.Wrap(services.ErrProbe, "probing", "ffprobe", "input is not a readable container", err)
	}
	return result, nil
}

func (p *Processor) classify(probeResult ffprobe.Result) (classify.Result, string, error) {
	streams := classify.DescriptorsFromProbe(probeResult)
	result := classify.Partition(streams, p.filter)

	if len(result.Kept)+len(result.Dropped) != len(streams) {
		return classify.Result{}, "", services.Wrap(services.ErrClassification, "classifying", "partition",
			fmt.Sprintf("partition lost streams: %d kept + %d dropped != %d probed",
				len(result.Kept), len(result.Dropped), len(streams)), nil)
	}
	if !result.HasVideo() {
		return classify.Result{}, "", services.Wrap(services.ErrValidation, "classifying", "partition", "no video stream in input", nil)
	}

	var note string
	if result.OnlyVideo() && (len(p.filter.AudioLangs) > 0 || len(p.filter.SubtitleLangs) > 0) {
		note = "no audio or subtitle track matched the configured languages; output contains video only"
	}
	return result, note, nil
}

func (p *Processor) execute(ctx context.Context, args []string, dest string) error {
	ctx = services.WithStage(ctx, "executing")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrProcessing, "executing", "prepare destination", "", err)
	}
	if err := p.transcoder.Transcode(ctx, args); err != nil {
		// A failed run must not leave a partially written destination behind.
		if removeErr := os.Remove(dest); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			err = fmt.Errorf("%w (cleanup failed: %v)", err, removeErr)
		}
		return services.Wrap(services.ErrProcessing, "executing", "ffmpeg", "", err)
	}
	return nil
}

func (p *Processor) fail(logger *slog.Logger, outcome Outcome, err error) Outcome {
	outcome.Err = err
	outcome.Status = StatusFailed
	logger.Error("processing failed", logging.Error(err))
	return outcome
}
