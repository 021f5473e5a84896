package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jchantrell/asntool/internal/asn"
	"github.com/jchantrell/asntool/internal/config"
	"github.com/jchantrell/asntool/internal/database"
	"github.com/jchantrell/asntool/internal/paths"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, dir string) (string, []byte) {
	t.Helper()

	sections := make([]asn.Section, asn.SectionCount)
	for i := range sections {
		sections[i] = asn.Section{Index: i, Name: fmt.Sprintf("Room%d", i), Entries: []asn.Entry{}}
	}
	sections[3].EntryCount = 2
	sections[3].FirstEntryIndex = 1
	sections[3].Entries = []asn.Entry{{Index: 1, Name: "Chest", ID: 0xA1}, {Index: 2, Name: "Door", ID: 0xA2}}
	sections[7].EntryCount = 1
	sections[7].Entries = []asn.Entry{{Index: 0, Name: "Torch", ID: 0xB0}}

	data, err := asn.NewDirectory(sections).Encode(nil)
	require.NoError(t, err)

	path := filepath.Join(dir, "Room.asn")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

func TestExtractAndBuild(t *testing.T) {
	dir := t.TempDir()
	input, original := writeArchive(t, dir)
	options := asn.DefaultCodecOptions()

	extracted, err := extractFile(input, paths.NewResolver("", ""), options)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Room.yaml"), extracted.Output)
	require.Equal(t, uint32(3), extracted.Directory.EntryCount)
	require.FileExists(t, extracted.Output)

	outDir := filepath.Join(dir, "rebuilt")
	built, err := buildFile(extracted.Output, paths.NewResolver(outDir, ""), options)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "Room.asn"), built.Output)

	rebuilt, err := os.ReadFile(built.Output)
	require.NoError(t, err)
	require.Equal(t, original, rebuilt)
}

func TestBuildFile_Failure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Broken.yaml")
	require.NoError(t, os.WriteFile(input, []byte("Section 0:\n  Name: only\n"), 0o644))

	_, err := buildFile(input, paths.NewResolver("", ""), asn.DefaultCodecOptions())
	require.ErrorIs(t, err, asn.ErrStructuralMismatch)
	require.NoFileExists(t, filepath.Join(dir, "Broken.asn"))
}

func TestExtractFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Short.asn")
	require.NoError(t, os.WriteFile(input, make([]byte, 0x40), 0o644))

	_, err := extractFile(input, paths.NewResolver("", ""), asn.DefaultCodecOptions())
	require.ErrorIs(t, err, asn.ErrMalformedHeader)
	require.NoFileExists(t, filepath.Join(dir, "Short.yaml"))
}

func TestVerifyFile(t *testing.T) {
	dir := t.TempDir()
	input, data := writeArchive(t, dir)

	diff, d, err := verifyFile(input, asn.DefaultCodecOptions())
	require.NoError(t, err)
	require.Equal(t, -1, diff)
	require.Equal(t, uint32(3), d.EntryCount)

	// a stray byte after the trailer does not survive re-encoding
	require.NoError(t, os.WriteFile(input, append(data, 0x01), 0o644))
	diff, _, err = verifyFile(input, asn.DefaultCodecOptions())
	require.NoError(t, err)
	require.Equal(t, len(data), diff)
}

func TestFirstDifference(t *testing.T) {
	require.Equal(t, -1, firstDifference([]byte{1, 2}, []byte{1, 2}))
	require.Equal(t, 1, firstDifference([]byte{1, 2}, []byte{1, 3}))
	require.Equal(t, 2, firstDifference([]byte{1, 2}, []byte{1, 2, 3}))
}

func TestNewResolver(t *testing.T) {
	c := &config.Config{OutputDir: "configured"}

	r, err := newResolver(c, "", "", 2)
	require.NoError(t, err)
	require.Equal(t, "configured", r.OutputDir)

	r, err = newResolver(c, "flag", "name", 1)
	require.NoError(t, err)
	require.Equal(t, "flag", r.OutputDir)
	require.Equal(t, "name", r.OutputName)

	_, err = newResolver(c, "", "name", 2)
	require.Error(t, err)
}

func TestCatalogFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input, _ := writeArchive(t, dir)

	db, err := database.NewDatabase(ctx, database.DefaultDatabaseOptions(filepath.Join(dir, "asn.db")))
	require.NoError(t, err)
	defer db.Close()

	imported, d, err := catalogFile(ctx, db, input, asn.DefaultCodecOptions())
	require.NoError(t, err)
	require.True(t, imported)
	require.Equal(t, uint32(3), d.EntryCount)

	imported, _, err = catalogFile(ctx, db, input, asn.DefaultCodecOptions())
	require.NoError(t, err)
	require.False(t, imported)

	matches, err := db.FindEntries(ctx, "Door")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 3, matches[0].SectionIdx)
}

func TestDescribeOffset(t *testing.T) {
	dir := t.TempDir()
	input, data := writeArchive(t, dir)
	d, err := asn.Decode(data, nil)
	require.NoError(t, err)

	require.Equal(t, "header", describeOffset(d, 0x0C))
	require.Equal(t, "section 0 header", describeOffset(d, asn.SectionTableOffset))
	require.Equal(t, "section 17 header", describeOffset(d, asn.EntryTableOffset-1))
	require.Equal(t, "entry 0 (Torch)", describeOffset(d, asn.EntryTableOffset+4))
	require.Equal(t, "entry 2 (Door)", describeOffset(d, asn.EntryOffset(2)+28))
	require.Equal(t, "trailer", describeOffset(d, len(data)-1))

	// the offset reported for a stray trailing byte falls past the entries
	require.NoError(t, os.WriteFile(input, append(data, 0x01), 0o644))
	diff, d, err := verifyFile(input, asn.DefaultCodecOptions())
	require.NoError(t, err)
	require.Equal(t, "trailer", describeOffset(d, diff))
}

func TestOpenCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "asn.db")

	_, err := openCatalog(ctx, path)
	require.ErrorIs(t, err, errNoCatalog)
	require.NoFileExists(t, path)

	db, err := database.NewDatabase(ctx, database.DefaultDatabaseOptions(path))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = openCatalog(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	sources, err := db.ListSources(ctx)
	require.NoError(t, err)
	require.Empty(t, sources)
}
