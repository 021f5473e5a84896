package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jchantrell/asntool/internal/asn"
	"github.com/jchantrell/asntool/internal/config"
	"github.com/jchantrell/asntool/internal/paths"
	"github.com/jchantrell/asntool/internal/utils"
)

// RunStats collects totals over every input of a command
type RunStats struct {
	StartTime    time.Time
	Files        int
	Entries      int64
	BytesRead    int64
	BytesWritten int64
}

func newRunStats() *RunStats {
	return &RunStats{StartTime: time.Now()}
}

func (s *RunStats) add(dir *asn.Directory, read, written int) {
	s.Files++
	s.Entries += int64(dir.EntryCount)
	s.BytesRead += int64(read)
	s.BytesWritten += int64(written)
}

func (s *RunStats) print() {
	fmt.Printf("Files processed: %d\n", s.Files)
	fmt.Printf("Entries: %s\n", utils.Number(s.Entries))
	fmt.Printf("Read: %s, written: %s\n", utils.Bytes(s.BytesRead), utils.Bytes(s.BytesWritten))
	fmt.Printf("Duration: %s\n", utils.Duration(time.Since(s.StartTime)))
}

// conversion is the result of converting one file
type conversion struct {
	Output    string
	Directory *asn.Directory
	Read      int
	Written   int
}

func codecOptions(c *config.Config) *asn.CodecOptions {
	return &asn.CodecOptions{Strict: c.Strict}
}

func progressEnabled(c *config.Config) bool {
	return !(noProgress || c.LogFormat == config.LogFormatJSON || c.LogLevel == "debug")
}

// forEachInput runs fn for every input and stops at the first failure
func forEachInput(inputs []string, enabled bool, fn func(path string) error) error {
	progress := utils.NewProgress(len(inputs), enabled)
	defer progress.Finish()

	for _, input := range inputs {
		progress.Start(input)
		if err := fn(input); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		progress.Done()
	}

	return nil
}

// extractFile decodes an .asn file and writes its YAML document
func extractFile(input string, resolver *paths.Resolver, options *asn.CodecOptions) (*conversion, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	dir, err := asn.Decode(data, options)
	if err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}

	doc, err := asn.MarshalDocument(dir)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	output := resolver.OutputPath(input, paths.DocumentExt)
	if err := writeOutput(resolver, output, doc); err != nil {
		return nil, err
	}

	slog.Debug("Extracted archive", "input", input, "output", output, "entries", dir.EntryCount)
	return &conversion{Output: output, Directory: dir, Read: len(data), Written: len(doc)}, nil
}

// buildFile encodes a YAML document and writes the .asn file
func buildFile(input string, resolver *paths.Resolver, options *asn.CodecOptions) (*conversion, error) {
	doc, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	dir, err := asn.UnmarshalDocument(doc, options)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	data, err := dir.Encode(options)
	if err != nil {
		return nil, fmt.Errorf("encoding archive: %w", err)
	}

	output := resolver.OutputPath(input, paths.ArchiveExt)
	if err := writeOutput(resolver, output, data); err != nil {
		return nil, err
	}

	slog.Debug("Built archive", "input", input, "output", output, "entries", dir.EntryCount, "size", len(data))
	return &conversion{Output: output, Directory: dir, Read: len(doc), Written: len(data)}, nil
}

// verifyFile decodes and re-encodes an .asn file. It returns the offset of
// the first differing byte, or -1 when the file round-trips exactly.
func verifyFile(input string, options *asn.CodecOptions) (int, *asn.Directory, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return 0, nil, fmt.Errorf("reading archive: %w", err)
	}

	dir, err := asn.Decode(data, options)
	if err != nil {
		return 0, nil, fmt.Errorf("decoding archive: %w", err)
	}

	encoded, err := dir.Encode(options)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding archive: %w", err)
	}

	return firstDifference(data, encoded), dir, nil
}

func firstDifference(a, b []byte) int {
	if bytes.Equal(a, b) {
		return -1
	}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// describeOffset names the part of an encoded directory that holds offset
func describeOffset(dir *asn.Directory, offset int) string {
	switch {
	case offset < asn.SectionTableOffset:
		return "header"
	case offset < asn.EntryTableOffset:
		return fmt.Sprintf("section %d header", (offset-asn.SectionTableOffset)/asn.SectionSize)
	}

	slot := (offset - asn.EntryTableOffset) / asn.EntrySize
	entries := dir.Entries()
	i := sort.Search(len(entries), func(i int) bool { return int(entries[i].Index) >= slot })
	if i < len(entries) && int(entries[i].Index) == slot {
		return fmt.Sprintf("entry %d (%s)", slot, entries[i].Name)
	}
	if slot >= len(entries) {
		return "trailer"
	}
	return fmt.Sprintf("entry %d", slot)
}

func writeOutput(resolver *paths.Resolver, output string, data []byte) error {
	if err := resolver.EnsureDir(filepath.Dir(output)); err != nil {
		return err
	}
	if err := utils.WriteFile(output, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// newResolver applies the --out-dir and --out-name flags over the configuration
func newResolver(c *config.Config, outDir, outName string, inputs int) (*paths.Resolver, error) {
	if outName != "" && inputs > 1 {
		return nil, fmt.Errorf("--out-name can only be used with a single input file")
	}
	if outDir == "" {
		outDir = c.OutputDir
	}
	return paths.NewResolver(outDir, outName), nil
}
