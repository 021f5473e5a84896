package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File extensions of the two forms
const (
	ArchiveExt  = ".asn"
	DocumentExt = ".yaml"
)

// Resolver picks output locations for converted files
type Resolver struct {
	// OutputDir overrides the directory of the input file when set
	OutputDir string
	// OutputName overrides the base name of the input file when set
	OutputName string
}

// NewResolver creates a resolver with optional directory and name overrides
func NewResolver(outputDir, outputName string) *Resolver {
	return &Resolver{
		OutputDir:  outputDir,
		OutputName: outputName,
	}
}

// OutputPath returns where the converted form of input is written. The
// directory defaults to the input's directory and the name to the input's
// base name with its extension swapped for ext. ext is appended when the
// resulting name does not already end with it.
func (r *Resolver) OutputPath(input, ext string) string {
	dir := r.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	name := r.OutputName
	if name == "" {
		name = filepath.Base(input)
		if old := filepath.Ext(name); strings.EqualFold(old, ArchiveExt) || strings.EqualFold(old, DocumentExt) || strings.EqualFold(old, ".yml") {
			name = strings.TrimSuffix(name, old)
		}
	}

	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}

	return filepath.Join(dir, name)
}

// EnsureDir creates a directory and all parent directories
func (r *Resolver) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path names a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
