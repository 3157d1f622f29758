package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ZuidVolt/trim-streams/internal/classify"
	"github.com/ZuidVolt/trim-streams/internal/config"
	"github.com/ZuidVolt/trim-streams/internal/history"
	"github.com/ZuidVolt/trim-streams/internal/language"
	"github.com/ZuidVolt/trim-streams/internal/logging"
	"github.com/ZuidVolt/trim-streams/internal/media/ffprobe"
	"github.com/ZuidVolt/trim-streams/internal/preflight"
	"github.com/ZuidVolt/trim-streams/internal/processor"
	"github.com/ZuidVolt/trim-streams/internal/scan"
	ffmpegsvc "github.com/ZuidVolt/trim-streams/internal/services/ffmpeg"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		audioLangs    []string
		subtitleLangs []string
		noCopy        bool
		noVerify      bool
		overwrite     bool
		workers       int
		timeoutSecs   int
	)

	cmd := &cobra.Command{
		Use:   "process <input>",
		Short: "Trim audio and subtitle tracks from a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("audio-langs") {
				cfg.Languages.Audio = language.NormalizeSet(splitLangTokens(audioLangs))
			}
			if cmd.Flags().Changed("subtitle-langs") {
				cfg.Languages.Subtitle = language.NormalizeSet(splitLangTokens(subtitleLangs))
			}
			if noCopy {
				cfg.Processing.CopyStreams = false
			}
			if noVerify {
				cfg.Processing.VerifyOutput = false
			}
			if overwrite {
				cfg.Processing.OverwriteExisting = true
			}
			if cmd.Flags().Changed("workers") {
				cfg.Processing.Workers = workers
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Processing.TimeoutSeconds = timeoutSecs
			}

			return runProcess(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringSliceVar(&audioLangs, "audio-langs", nil, "Audio language codes to keep (comma or space separated)")
	cmd.Flags().StringSliceVar(&subtitleLangs, "subtitle-langs", nil, "Subtitle language codes to keep (comma or space separated)")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "Re-encode streams instead of stream copy")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip output verification")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Reprocess files whose destination already exists")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel files per batch (0 = auto)")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "Per-file ffmpeg timeout in seconds (0 = none)")

	return cmd
}

func runProcess(cmd *cobra.Command, cfg *config.Config, inputArg string) error {
	logger, err := newRunLogger(cfg)
	if err != nil {
		return err
	}

	input, err := config.ExpandPath(inputArg)
	if err != nil {
		return err
	}

	batch, err := scan.Discover(input, cfg.Processing.OutputDirName)
	if err != nil {
		return err
	}
	if len(batch.Sources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No media files found.")
		return nil
	}

	if err := os.MkdirAll(batch.OutputRoot, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	checks := preflight.Run(
		cfg.Tools.FFmpegBinary, cfg.Tools.FFprobeBinary,
		batch.OutputRoot, cfg.Resources.MinMemoryGiB, cfg.Resources.MinFreeDiskGiB,
	)
	for _, check := range checks {
		if !check.Passed && !check.Fatal {
			logger.Warn("preflight warning",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail))
		}
	}
	if failure, found := preflight.FatalFailure(checks); found {
		return fmt.Errorf("preflight: %s: %s", failure.Name, failure.Detail)
	}

	// Concurrent runs over the same tree would race on destinations.
	runLock := flock.New(filepath.Join(batch.OutputRoot, ".trim-streams.lock"))
	locked, err := runLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another trim-streams run is already processing %s", batch.Root)
	}
	defer func() {
		_ = runLock.Unlock()
	}()

	client, err := ffmpegsvc.New(cfg.Tools.FFmpegBinary, cfg.Processing.TimeoutSeconds)
	if err != nil {
		return err
	}
	proc, err := processor.New(processor.Options{
		Prober:     ffprobe.NewCommandProber(cfg.Tools.FFprobeBinary),
		Transcoder: client,
		Filter: classify.Filter{
			AudioLangs:    cfg.Languages.Audio,
			SubtitleLangs: cfg.Languages.Subtitle,
		},
		CopyStreams:  cfg.Processing.CopyStreams,
		VerifyOutput: cfg.Processing.VerifyOutput,
		Overwrite:    cfg.Processing.OverwriteExisting,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	var recorder processor.Recorder
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("history ledger unavailable", logging.Error(err))
	} else {
		defer store.Close()
		recorder = history.NewRunRecorder(store, uuid.NewString())
	}

	jobs := make([]processor.Job, 0, len(batch.Sources))
	for _, source := range batch.Sources {
		dest, err := batch.DestinationFor(source)
		if err != nil {
			return err
		}
		jobs = append(jobs, processor.Job{Source: source, Dest: dest})
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting batch",
		logging.Int("files", len(jobs)),
		logging.Bool("copy_streams", cfg.Processing.CopyStreams),
		logging.Bool("verify_output", cfg.Processing.VerifyOutput))

	outcomes := processor.NewBatch(proc, cfg.Processing.Workers, recorder, logger).Run(runCtx, jobs)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderOutcomeSummary(outcomes, stdoutIsTerminal()))

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Success() {
			succeeded++
		}
	}
	fmt.Fprintf(out, "Processed %d/%d files successfully.\n", succeeded, len(outcomes))

	if err := runCtx.Err(); err != nil {
		return err
	}
	if !processor.Aggregate(outcomes) {
		return fmt.Errorf("%d of %d files failed", len(outcomes)-succeeded, len(outcomes))
	}
	return nil
}

func newRunLogger(cfg *config.Config) (*slog.Logger, error) {
	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "trim-streams.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

// splitLangTokens accepts both comma-separated and space-separated language
// lists, matching the original CLI contract.
func splitLangTokens(values []string) []string {
	var tokens []string
	for _, value := range values {
		for _, token := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		}) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
