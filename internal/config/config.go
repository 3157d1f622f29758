package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Languages contains the allow-lists applied during stream classification.
// Matching is literal per token, so variants like "eng" and "en" must both
// be listed when both occur in the wild.
type Languages struct {
	Audio    []string `toml:"audio"`
	Subtitle []string `toml:"subtitle"`
}

// Processing contains the knobs for the per-file workflow.
type Processing struct {
	// CopyStreams selects stream copy (true) or the tool's re-encode path (false).
	CopyStreams bool `toml:"copy_streams"`
	// VerifyOutput re-probes produced files and checks stream counts.
	VerifyOutput bool `toml:"verify_output"`
	// Workers bounds batch parallelism. 0 means auto (NumCPU capped at 4).
	Workers int `toml:"workers"`
	// TimeoutSeconds bounds a single ffmpeg invocation. 0 disables the timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// OverwriteExisting reprocesses files whose destination already exists.
	OverwriteExisting bool `toml:"overwrite_existing"`
	// OutputDirName is the subdirectory outputs are mirrored into.
	OutputDirName string `toml:"output_dir_name"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Paths contains directory and database locations.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Resources contains preflight thresholds. Falling below them produces
// warnings, not failures.
type Resources struct {
	MinMemoryGiB   int `toml:"min_memory_gib"`
	MinFreeDiskGiB int `toml:"min_free_disk_gib"`
}

// Config encapsulates all configuration values for trim-streams.
type Config struct {
	Languages  Languages  `toml:"languages"`
	Processing Processing `toml:"processing"`
	Tools      Tools      `toml:"tools"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
	Resources  Resources  `toml:"resources"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trim-streams/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and language lists normalized. The boolean
// reports whether a file was actually found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trim-streams.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the run needs before any file is
// processed.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, filepath.Dir(c.Paths.HistoryDB)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
