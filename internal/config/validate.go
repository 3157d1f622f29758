package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateResources(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.Workers < 0 {
		return errors.New("processing.workers must not be negative")
	}
	if c.Processing.TimeoutSeconds < 0 {
		return errors.New("processing.timeout_seconds must not be negative")
	}
	name := c.Processing.OutputDirName
	if strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
		return fmt.Errorf("processing.output_dir_name must be a plain directory name, got %q", name)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateResources() error {
	if c.Resources.MinMemoryGiB < 0 {
		return errors.New("resources.min_memory_gib must not be negative")
	}
	if c.Resources.MinFreeDiskGiB < 0 {
		return errors.New("resources.min_free_disk_gib must not be negative")
	}
	return nil
}
