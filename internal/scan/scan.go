package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// mediaExtensions are the container types worth trimming. Everything else in
// a directory walk is ignored; an explicit file argument bypasses the filter.
var mediaExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
	".avi": {},
	".mov": {},
}

// Batch describes the files one invocation will process and where their
// outputs land.
type Batch struct {
	// Root anchors relative paths. For a single-file input it is the file's
	// directory; for a directory input it is the directory itself.
	Root string
	// OutputRoot is <Root>/<outputDirName>. Destinations mirror each source's
	// path relative to Root underneath it, filename unchanged.
	OutputRoot string
	// Sources in deterministic walk order.
	Sources []string
}

// Discover expands an input path (file or directory) into a Batch. Directory
// walks recurse, skip the output tree, and keep only known media extensions.
func Discover(inputPath, outputDirName string) (Batch, error) {
	inputPath = filepath.Clean(inputPath)
	info, err := os.Stat(inputPath)
	if err != nil {
		return Batch{}, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		root := filepath.Dir(inputPath)
		return Batch{
			Root:       root,
			OutputRoot: filepath.Join(root, outputDirName),
			Sources:    []string{inputPath},
		}, nil
	}

	batch := Batch{
		Root:       inputPath,
		OutputRoot: filepath.Join(inputPath, outputDirName),
	}
	err = filepath.WalkDir(inputPath, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if entry.Name() == outputDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			batch.Sources = append(batch.Sources, path)
		}
		return nil
	})
	if err != nil {
		return Batch{}, fmt.Errorf("walk input: %w", err)
	}
	return batch, nil
}

// DestinationFor maps a source file onto its output path under OutputRoot.
func (b Batch) DestinationFor(source string) (string, error) {
	rel, err := filepath.Rel(b.Root, source)
	if err != nil {
		return "", fmt.Errorf("relativize %q: %w", source, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("source %q escapes batch root %q", source, b.Root)
	}
	return filepath.Join(b.OutputRoot, rel), nil
}
