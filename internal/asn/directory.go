package asn

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sort"
)

// CodecOptions configures how strictly directories are checked
type CodecOptions struct {
	// Strict rejects directories whose section ranges do not partition the
	// entry table, whose entry lists disagree with their counts, or whose
	// fixed header bytes are not what the format writes. When false counts
	// are trusted and entries are written wherever their index puts them.
	Strict bool
}

// DefaultCodecOptions returns strict options
func DefaultCodecOptions() *CodecOptions {
	return &CodecOptions{Strict: true}
}

// Directory is a whole .asn file
type Directory struct {
	EntryCount uint32
	Sections   []Section
}

// NewDirectory builds a directory from sections and computes its entry count
func NewDirectory(sections []Section) *Directory {
	d := &Directory{Sections: sections}
	d.EntryCount = d.countEntries()
	return d
}

func (d *Directory) countEntries() uint32 {
	var n uint32
	for i := range d.Sections {
		n += uint32(d.Sections[i].EntryCount)
	}
	return n
}

// Decode parses a directory from a complete .asn file
func Decode(data []byte, options *CodecOptions) (*Directory, error) {
	if options == nil {
		options = DefaultCodecOptions()
	}

	if len(data) < EntryTableOffset {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrMalformedHeader, len(data), EntryTableOffset)
	}

	if options.Strict {
		if err := checkFixedBytes(data); err != nil {
			return nil, err
		}
	}

	d := &Directory{
		EntryCount: binary.BigEndian.Uint32(data[entryCountOffset:]),
		Sections:   make([]Section, 0, SectionCount),
	}

	for i := 0; i < SectionCount; i++ {
		section, err := DecodeSection(data, i)
		if err != nil {
			return nil, err
		}
		slog.Debug("Decoded section", "index", i, "name", section.Name,
			"entries", section.EntryCount, "first_entry", section.FirstEntryIndex)
		d.Sections = append(d.Sections, section)
	}

	if sum := d.countEntries(); sum != d.EntryCount {
		if options.Strict {
			return nil, fmt.Errorf("%w: header entry count %d, sections hold %d", ErrStructuralMismatch, d.EntryCount, sum)
		}
		slog.Warn("Header entry count disagrees with sections, using section total",
			"header", d.EntryCount, "sections", sum)
		d.EntryCount = sum
	}

	if options.Strict {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if want := FileSize(int(d.EntryCount)); len(data) != want {
			slog.Warn("File size differs from layout", "size", len(data), "expected", want)
		}
	}

	return d, nil
}

// checkFixedBytes verifies the zero prologue and the section index labels
func checkFixedBytes(data []byte) error {
	for i := 0; i < entryCountOffset; i++ {
		if data[i] != 0 {
			return fmt.Errorf("%w: prologue byte %d is 0x%02x", ErrMalformedHeader, i, data[i])
		}
	}

	for i := 0; i < SectionCount; i++ {
		s := Section{Index: i}
		off := SectionOffset(i)
		if label := string(data[off : off+sectionLabelSize]); label != s.Label() {
			return fmt.Errorf("%w: section %d label is %q, want %q", ErrMalformedHeader, i, label, s.Label())
		}
	}

	return nil
}

// Validate checks that the directory holds sections 0..17 exactly once, that
// every section lists the entries of its range, and that the ranges cover
// [0, EntryCount) without gaps or overlaps
func (d *Directory) Validate() error {
	if err := d.checkSectionSet(); err != nil {
		return err
	}

	byFirst := make([]*Section, len(d.Sections))
	for i := range d.Sections {
		s := &d.Sections[i]
		s.SortEntries()
		if err := s.validate(); err != nil {
			return err
		}
		byFirst[i] = s
	}

	sort.SliceStable(byFirst, func(i, j int) bool {
		return byFirst[i].FirstEntryIndex < byFirst[j].FirstEntryIndex
	})

	next := 0
	for _, s := range byFirst {
		// empty sections do not occupy any part of the table
		if s.EntryCount == 0 {
			continue
		}
		if int(s.FirstEntryIndex) != next {
			kind := "gap"
			if int(s.FirstEntryIndex) < next {
				kind = "overlap"
			}
			return fmt.Errorf("%w: %s before section %d (first entry %d, expected %d)",
				ErrStructuralMismatch, kind, s.Index, s.FirstEntryIndex, next)
		}
		next += int(s.EntryCount)
	}

	if uint32(next) != d.EntryCount {
		return fmt.Errorf("%w: sections cover %d entries, directory holds %d", ErrStructuralMismatch, next, d.EntryCount)
	}

	return nil
}

func (d *Directory) checkSectionSet() error {
	if len(d.Sections) != SectionCount {
		return fmt.Errorf("%w: %d sections, want %d", ErrStructuralMismatch, len(d.Sections), SectionCount)
	}

	var seen [SectionCount]bool
	for i := range d.Sections {
		idx := d.Sections[i].Index
		if idx < 0 || idx >= SectionCount {
			return fmt.Errorf("%w: section index %d out of range", ErrStructuralMismatch, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: duplicate section %d", ErrStructuralMismatch, idx)
		}
		seen[idx] = true
	}

	return nil
}

// Encode serializes the directory. Section headers are written in index order;
// entries are written in global index order, walking sections by their first
// entry index so the record stream matches the fixed entry offsets.
func (d *Directory) Encode(options *CodecOptions) ([]byte, error) {
	if options == nil {
		options = DefaultCodecOptions()
	}

	if err := d.checkSectionSet(); err != nil {
		return nil, err
	}

	d.EntryCount = d.countEntries()
	if options.Strict {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	slots := int(d.EntryCount)
	for i := range d.Sections {
		for _, e := range d.Sections[i].Entries {
			if int(e.Index) >= slots {
				slots = int(e.Index) + 1
			}
		}
	}
	if slots != int(d.EntryCount) {
		slog.Warn("Entry indices extend past entry count", "entry_count", d.EntryCount, "slots", slots)
	}

	out := make([]byte, FileSize(slots))
	binary.BigEndian.PutUint32(out[entryCountOffset:], d.EntryCount)

	sections := make([]*Section, len(d.Sections))
	for i := range d.Sections {
		sections[i] = &d.Sections[i]
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Index < sections[j].Index
	})
	for _, s := range sections {
		header, err := s.HeaderBytes()
		if err != nil {
			return nil, err
		}
		copy(out[s.Offset():], header)
		s.SortEntries()
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].FirstEntryIndex < sections[j].FirstEntryIndex
	})
	for _, s := range sections {
		for _, e := range s.Entries {
			record, err := e.Bytes()
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", s.Index, err)
			}
			copy(out[e.Offset():], record)
		}
		slog.Debug("Encoded section", "index", s.Index, "name", s.Name, "entries", len(s.Entries))
	}

	return out, nil
}

// Entries returns every entry of the directory ordered by global index
func (d *Directory) Entries() []Entry {
	entries := make([]Entry, 0, d.EntryCount)
	for i := range d.Sections {
		entries = append(entries, d.Sections[i].Entries...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Index < entries[j].Index
	})
	return entries
}
