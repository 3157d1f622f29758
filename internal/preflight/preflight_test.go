package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries([]Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Passed || results[0].Fatal {
		t.Fatalf("expected present binary to pass: %+v", results[0])
	}
	if results[1].Passed || !results[1].Fatal {
		t.Fatalf("expected missing binary to fail fatally: %+v", results[1])
	}
	if results[2].Passed || results[2].Detail == "" {
		t.Fatalf("expected unconfigured command to fail with detail: %+v", results[2])
	}
}

func TestCheckMemoryDisabled(t *testing.T) {
	result := CheckMemory(0)
	if !result.Passed {
		t.Fatalf("expected disabled check to pass: %+v", result)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	result := CheckDiskSpace(t.TempDir(), 1)
	if result.Fatal {
		t.Fatalf("disk check must never be fatal: %+v", result)
	}
	if result.Detail == "" {
		t.Fatalf("expected detail either way: %+v", result)
	}
}

func TestFatalFailure(t *testing.T) {
	results := []Result{
		{Name: "Memory", Passed: false, Fatal: false},
		{Name: "ffmpeg", Passed: false, Fatal: true},
	}
	failure, found := FatalFailure(results)
	if !found || failure.Name != "ffmpeg" {
		t.Fatalf("expected ffmpeg fatal failure, got %+v found=%v", failure, found)
	}
	if _, found := FatalFailure(results[:1]); found {
		t.Fatalf("warning must not be fatal")
	}
}
