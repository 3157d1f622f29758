package verify

import (
	"context"
	"fmt"
	"os"

	"github.com/ZuidVolt/trim-streams/internal/classify"
	"github.com/ZuidVolt/trim-streams/internal/media/ffprobe"
	"github.com/ZuidVolt/trim-streams/internal/services"
)

// Verifier re-probes produced files and checks them against the
// classification that drove the trim.
type Verifier struct {
	prober ffprobe.Prober
}

// New constructs a verifier over the given prober.
func New(prober ffprobe.Prober) *Verifier {
	return &Verifier{prober: prober}
}

const stage = "verifying"

// Verify checks that the output exists, is non-empty, probes cleanly, and
// carries exactly the kept stream counts per type. Language tags are not
// re-inspected: copy mode preserves them by construction, and what re-encode
// mode does with them is the external tool's business.
func (v *Verifier) Verify(ctx context.Context, outputPath string, expected classify.Result) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		return services.Wrap(services.ErrVerification, stage, "stat", "output file missing", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrVerification, stage, "stat", "output file is empty", nil)
	}

	result, err := v.prober.Inspect(ctx, outputPath)
	if err != nil {
		return services.Wrap(services.ErrVerification, stage, "probe", "output file is not a readable container", err)
	}

	checks := []struct {
		codecType string
		want      int
	}{
		{"video", expected.KeptByType(classify.TypeVideo)},
		{"audio", expected.KeptByType(classify.TypeAudio)},
		{"subtitle", expected.KeptByType(classify.TypeSubtitle)},
	}
	for _, check := range checks {
		if got := result.CountByType(check.codecType); got != check.want {
			return services.Wrap(services.ErrVerification, stage, "stream count",
				fmt.Sprintf("expected %d %s stream(s), found %d", check.want, check.codecType, got), nil)
		}
	}
	return nil
}
