package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZuidVolt/trim-streams/internal/processor"
)

func TestConfigInitCommand(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowCommand(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, _, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[languages]")
	requireContains(t, out, "output_dir_name = 'processed'")
}

func TestHistoryCommandEmpty(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No processing history yet.")
}

func TestProcessCommandMissingInput(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	_, _, err := runCLI(t, []string{"process", filepath.Join(base, "nope")}, configPath)
	if err == nil {
		t.Fatal("expected error for missing input path")
	}
}

func TestProcessCommandEmptyDirectory(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	inputDir := filepath.Join(base, "media")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	out, _, err := runCLI(t, []string{"process", inputDir}, configPath)
	if err != nil {
		t.Fatalf("process empty dir: %v", err)
	}
	requireContains(t, out, "No media files found.")
}

func TestSplitLangTokens(t *testing.T) {
	got := splitLangTokens([]string{"eng en", "kor,jpn", " chi "})
	want := []string{"eng", "en", "kor", "jpn", "chi"}
	if len(got) != len(want) {
		t.Fatalf("splitLangTokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitLangTokens = %v, want %v", got, want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[processor.Status]string{
		processor.StatusVerified:     "Verified",
		processor.StatusVerifyFailed: "Verify Failed",
		processor.StatusSkipped:      "Skipped",
	}
	for status, want := range cases {
		if got := statusLabel(status); got != want {
			t.Fatalf("statusLabel(%s) = %q, want %q", status, got, want)
		}
	}
}

func TestRenderOutcomeSummary(t *testing.T) {
	outcomes := []processor.Outcome{
		{SourcePath: "/media/a.mkv", Status: processor.StatusVerified, Note: "kept 3 of 5 streams"},
		{SourcePath: "/media/b.mkv", Status: processor.StatusFailed, Err: errors.New("probe failed")},
	}
	rendered := renderOutcomeSummary(outcomes, false)
	requireContains(t, rendered, "a.mkv")
	requireContains(t, rendered, "Verified")
	requireContains(t, rendered, "probe failed")
}
