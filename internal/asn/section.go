package asn

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Section is a named run of consecutive entries
type Section struct {
	Index           int
	Name            string
	EntryCount      uint16
	FirstEntryIndex uint16
	Entries         []Entry
}

// Offset returns the absolute byte offset of the section header
func (s *Section) Offset() int {
	return SectionOffset(s.Index)
}

// Label returns the two character index label written at the start of the header
func (s *Section) Label() string {
	return fmt.Sprintf("%2d", s.Index)
}

// DecodeSection reads the section header at the given index and every entry it
// references
func DecodeSection(data []byte, index int) (Section, error) {
	if index < 0 || index >= SectionCount {
		return Section{}, fmt.Errorf("%w: section index %d out of range", ErrStructuralMismatch, index)
	}

	off := SectionOffset(index)
	if off+SectionSize > len(data) {
		return Section{}, fmt.Errorf("%w: section %d at 0x%x exceeds data length %d", ErrMalformedHeader, index, off, len(data))
	}
	header := data[off : off+SectionSize]

	name, err := readName(header[sectionNameOffset : sectionNameOffset+SectionNameSize])
	if err != nil {
		return Section{}, fmt.Errorf("section %d name: %w", index, err)
	}

	s := Section{
		Index:           index,
		Name:            name,
		EntryCount:      binary.BigEndian.Uint16(header[sectionEntryCountOffset:]),
		FirstEntryIndex: binary.BigEndian.Uint16(header[sectionFirstEntryOffset:]),
	}

	if last := int(s.FirstEntryIndex) + int(s.EntryCount); last > 0xFFFF+1 {
		return Section{}, fmt.Errorf("%w: section %d range %d+%d overflows u16 index",
			ErrStructuralMismatch, index, s.FirstEntryIndex, s.EntryCount)
	}

	s.Entries = make([]Entry, 0, s.EntryCount)
	for i := 0; i < int(s.EntryCount); i++ {
		entry, err := DecodeEntry(data, s.FirstEntryIndex+uint16(i))
		if err != nil {
			return Section{}, fmt.Errorf("section %d: %w", index, err)
		}
		s.Entries = append(s.Entries, entry)
	}

	return s, nil
}

// HeaderBytes serializes the 32 byte section header
func (s *Section) HeaderBytes() ([]byte, error) {
	if s.Index < 0 || s.Index >= SectionCount {
		return nil, fmt.Errorf("%w: section index %d out of range", ErrStructuralMismatch, s.Index)
	}

	name, err := padName(s.Name, SectionNameSize)
	if err != nil {
		return nil, fmt.Errorf("section %d name: %w", s.Index, err)
	}

	b := make([]byte, SectionSize)
	copy(b[:sectionLabelSize], s.Label())
	copy(b[sectionNameOffset:], name)
	binary.BigEndian.PutUint16(b[sectionEntryCountOffset:], s.EntryCount)
	binary.BigEndian.PutUint16(b[sectionFirstEntryOffset:], s.FirstEntryIndex)
	return b, nil
}

// SortEntries orders the section's entries by global index
func (s *Section) SortEntries() {
	sort.SliceStable(s.Entries, func(i, j int) bool {
		return s.Entries[i].Index < s.Entries[j].Index
	})
}

// validate checks that the section holds exactly the entries of its range
func (s *Section) validate() error {
	if len(s.Entries) != int(s.EntryCount) {
		return fmt.Errorf("%w: section %d lists %d entries but NumEntries is %d",
			ErrStructuralMismatch, s.Index, len(s.Entries), s.EntryCount)
	}

	for i, e := range s.Entries {
		want := int(s.FirstEntryIndex) + i
		if int(e.Index) != want {
			return fmt.Errorf("%w: section %d entry %d has index %d, want %d",
				ErrStructuralMismatch, s.Index, i, e.Index, want)
		}
	}

	return nil
}
