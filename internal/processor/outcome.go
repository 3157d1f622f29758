package processor

// Status tracks a file through the per-file state machine:
//
//	pending → probed → classified → command_built → executing →
//	{succeeded, failed} → (verifying → {verified, verify_failed})
//
// Transitions are strictly sequential and there are no retries: a failed
// ffmpeg invocation is reported, not retried.
type Status string

const (
	StatusPending      Status = "pending"
	StatusProbed       Status = "probed"
	StatusClassified   Status = "classified"
	StatusCommandBuilt Status = "command_built"
	StatusExecuting    Status = "executing"
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
	StatusVerifying    Status = "verifying"
	StatusVerified     Status = "verified"
	StatusVerifyFailed Status = "verify_failed"
	StatusSkipped      Status = "skipped"
)

// Outcome is the terminal record of one file's workflow. It is created once
// at the end of processing and never mutated afterwards.
type Outcome struct {
	SourcePath string
	OutputPath string
	Status     Status
	// Note carries non-fatal information, e.g. that no audio or subtitle
	// track matched and the output contains only video.
	Note string
	// Err is set for failed and verify_failed outcomes, wrapped with a
	// services sentinel and enough context to diagnose without re-running.
	Err error
	// Verified is nil when verification was skipped.
	Verified *bool
}

// Success reports whether this outcome counts toward the batch's aggregate
// success. Skips do not fail a batch; verification failures do.
func (o Outcome) Success() bool {
	switch o.Status {
	case StatusSucceeded, StatusVerified, StatusSkipped:
		return true
	default:
		return false
	}
}

// Aggregate folds per-file successes into the batch result: true only when
// every outcome succeeded.
func Aggregate(outcomes []Outcome) bool {
	for _, outcome := range outcomes {
		if !outcome.Success() {
			return false
		}
	}
	return true
}
