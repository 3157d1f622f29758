package processor

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZuidVolt/trim-streams/internal/classify"
	"github.com/ZuidVolt/trim-streams/internal/media/ffprobe"
)

type memoryRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (m *memoryRecorder) Record(_ context.Context, outcome Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	return nil
}

func batchFixture(t *testing.T, n int) (*Processor, []Job, *fakeProber) {
	t.Helper()
	dir := t.TempDir()
	prober := &fakeProber{results: map[string]ffprobe.Result{}}
	jobs := make([]Job, 0, n)
	for i := range n {
		source := filepath.Join(dir, "in", string(rune('a'+i))+".mkv")
		dest := filepath.Join(dir, "out", string(rune('a'+i))+".mkv")
		prober.results[source] = sourceProbe()
		jobs = append(jobs, Job{Source: source, Dest: dest})
	}
	proc := newProcessor(t, Options{
		Prober:     prober,
		Transcoder: &fakeTranscoder{},
		Filter:     classify.Filter{AudioLangs: []string{"eng"}, SubtitleLangs: []string{"eng"}},
	})
	return proc, jobs, prober
}

func TestBatchRunOneOutcomePerJob(t *testing.T) {
	proc, jobs, _ := batchFixture(t, 5)
	recorder := &memoryRecorder{}
	batch := NewBatch(proc, 3, recorder, nil)

	outcomes := batch.Run(context.Background(), jobs)
	if len(outcomes) != len(jobs) {
		t.Fatalf("expected %d outcomes, got %d", len(jobs), len(outcomes))
	}
	for i, outcome := range outcomes {
		if outcome.SourcePath != jobs[i].Source {
			t.Fatalf("outcome %d out of order: %s != %s", i, outcome.SourcePath, jobs[i].Source)
		}
		if outcome.Status != StatusSucceeded {
			t.Fatalf("job %d: expected succeeded, got %s (err=%v)", i, outcome.Status, outcome.Err)
		}
	}
	if !Aggregate(outcomes) {
		t.Fatalf("expected aggregate success")
	}
	if len(recorder.outcomes) != len(jobs) {
		t.Fatalf("expected %d recorded outcomes, got %d", len(jobs), len(recorder.outcomes))
	}
}

func TestBatchRunFailureDoesNotAbortOthers(t *testing.T) {
	proc, jobs, prober := batchFixture(t, 3)
	prober.errs = map[string]error{jobs[1].Source: errors.New("unreadable")}
	batch := NewBatch(proc, 1, nil, nil)

	outcomes := batch.Run(context.Background(), jobs)
	if outcomes[0].Status != StatusSucceeded || outcomes[2].Status != StatusSucceeded {
		t.Fatalf("expected surrounding jobs to succeed: %v / %v", outcomes[0].Status, outcomes[2].Status)
	}
	if outcomes[1].Status != StatusFailed {
		t.Fatalf("expected middle job failed, got %s", outcomes[1].Status)
	}
	if Aggregate(outcomes) {
		t.Fatalf("aggregate must fail when any file fails")
	}
}

func TestBatchRunCancelled(t *testing.T) {
	proc, jobs, _ := batchFixture(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := NewBatch(proc, 2, nil, nil).Run(ctx, jobs)
	if len(outcomes) != len(jobs) {
		t.Fatalf("expected one outcome per job even when cancelled, got %d", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Status != StatusFailed {
			t.Fatalf("expected failed outcome under cancellation, got %s", outcome.Status)
		}
	}
}

func TestBatchAutoWorkerBound(t *testing.T) {
	proc, _, _ := batchFixture(t, 1)
	batch := NewBatch(proc, 0, nil, nil)
	if batch.workers < 1 || batch.workers > maxAutoWorkers {
		t.Fatalf("unexpected auto worker count %d", batch.workers)
	}
}

func TestAggregateEmptyBatch(t *testing.T) {
	if !Aggregate(nil) {
		t.Fatalf("empty batch aggregates to success")
	}
}
