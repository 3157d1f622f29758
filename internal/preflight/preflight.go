package preflight

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"
)

// Result reports one preflight check.
type Result struct {
	Name   string
	Passed bool
	// Fatal marks failures that must abort the run (a missing required
	// binary). Resource shortfalls are warnings only.
	Fatal  bool
	Detail string
}

// Requirement defines an external binary the pipeline relies on.
type Requirement struct {
	Name    string
	Command string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Result {
	results := make([]Result, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		result := Result{Name: req.Name, Fatal: true}
		if cmd == "" {
			result.Detail = "command not configured"
			results = append(results, result)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			result.Detail = fmt.Sprintf("binary %q not found in PATH", cmd)
			results = append(results, result)
			continue
		}
		result.Passed = true
		result.Fatal = false
		result.Detail = resolved
		results = append(results, result)
	}
	return results
}

const bytesPerGiB = 1 << 30

// CheckMemory warns when available RAM falls below the configured minimum.
// Encoding with too little memory is slow, not broken, so this never aborts.
func CheckMemory(minGiB int) Result {
	const name = "Memory"
	if minGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "check disabled"}
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("unable to read memory stats (%v)", err)}
	}
	available := float64(vm.Available) / bytesPerGiB
	if vm.Available < uint64(minGiB)*bytesPerGiB {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("%.1f GiB available, %d GiB recommended; processing may be slow", available, minGiB),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB available", available)}
}

// CheckDiskSpace warns when the filesystem holding path has less free space
// than the configured minimum.
func CheckDiskSpace(path string, minGiB int) Result {
	const name = "Disk space"
	if minGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "check disabled"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("unable to stat %s (%v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	freeGiB := float64(free) / bytesPerGiB
	if free < uint64(minGiB)*bytesPerGiB {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("%.1f GiB free at %s, %d GiB recommended", freeGiB, path, minGiB),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB free at %s", freeGiB, path)}
}

// Run executes the standard preflight suite for one invocation: required
// binaries plus resource checks against the output location.
func Run(ffmpegBinary, ffprobeBinary, outputPath string, minMemoryGiB, minDiskGiB int) []Result {
	results := CheckBinaries([]Requirement{
		{Name: "ffmpeg", Command: ffmpegBinary},
		{Name: "ffprobe", Command: ffprobeBinary},
	})
	results = append(results, CheckMemory(minMemoryGiB))
	results = append(results, CheckDiskSpace(outputPath, minDiskGiB))
	return results
}

// FatalFailure returns the first result that must abort the run, if any.
func FatalFailure(results []Result) (Result, bool) {
	for _, result := range results {
		if !result.Passed && result.Fatal {
			return result, true
		}
	}
	return Result{}, false
}
