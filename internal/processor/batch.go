package processor

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ZuidVolt/trim-streams/internal/logging"
	"github.com/ZuidVolt/trim-streams/internal/services"
)

// maxAutoWorkers caps automatic pool sizing. ffmpeg is multithreaded on its
// own; oversubscribing it helps nothing.
const maxAutoWorkers = 4

// Job pairs a source file with its destination.
type Job struct {
	Source string
	Dest   string
}

// Recorder persists outcomes as they complete. Recording failures are logged
// and otherwise ignored: the ledger must never break the batch.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Batch fans jobs out over a bounded worker pool. Workers share the
// read-only Processor and nothing else.
type Batch struct {
	proc     *Processor
	workers  int
	recorder Recorder
	logger   *slog.Logger
}

// NewBatch constructs a batch runner. workers <= 0 selects an automatic
// bound from the CPU count. recorder may be nil.
func NewBatch(proc *Processor, workers int, recorder Recorder, logger *slog.Logger) *Batch {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > maxAutoWorkers {
			workers = maxAutoWorkers
		}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batch{proc: proc, workers: workers, recorder: recorder, logger: logger}
}

// Run processes every job and returns exactly one outcome per job, in job
// order. Cancellation terminates in-flight subprocesses (their partial
// outputs are removed by Process) and fails the jobs that never started;
// outcomes completed before the cancellation are preserved.
func (b *Batch) Run(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	workers := b.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	type indexedJob struct {
		index int
		job   Job
	}
	queue := make(chan indexedJob)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				if err := ctx.Err(); err != nil {
					outcomes[item.index] = Outcome{
						SourcePath: item.job.Source,
						OutputPath: item.job.Dest,
						Status:     StatusFailed,
						Err:        services.Wrap(services.ErrProcessing, "pending", "", "run cancelled before processing started", err),
					}
					continue
				}
				outcome := b.proc.Process(ctx, item.job.Source, item.job.Dest)
				outcomes[item.index] = outcome
				b.record(ctx, outcome)
			}
		}()
	}

	for i, job := range jobs {
		queue <- indexedJob{index: i, job: job}
	}
	close(queue)
	wg.Wait()

	return outcomes
}

func (b *Batch) record(ctx context.Context, outcome Outcome) {
	if b.recorder == nil {
		return
	}
	// Use a background-derived context so a cancelled run still records the
	// outcomes it finished.
	if err := b.recorder.Record(context.WithoutCancel(ctx), outcome); err != nil {
		b.logger.Warn("failed to record outcome",
			logging.String("source", outcome.SourcePath),
			logging.Error(err))
	}
}
