// Package asn reads and writes .asn archive directories: a fixed 16 byte
// header, a table of 18 section headers and a table of 32 byte entry records.
// All integers are big-endian.
package asn

const (
	// HeaderSize is the size of the main header (12 zero bytes plus the entry count)
	HeaderSize = 0x10

	// SectionCount is the number of section headers in every directory.
	// Files seen so far always carry 18; nothing in the format stores the count.
	SectionCount = 18

	// SectionSize is the size of one section header
	SectionSize = 0x20

	// SectionTableOffset is where the first section header starts
	SectionTableOffset = HeaderSize

	// EntryTableOffset is where the first entry record starts (0x10 + 18*0x20)
	EntryTableOffset = SectionTableOffset + SectionCount*SectionSize

	// EntrySize is the size of one entry record
	EntrySize = 0x20

	// TrailerSize is the size of the zero padding after the last entry
	TrailerSize = 0x10

	// SectionNameSize is the name budget of a section header
	SectionNameSize = 26

	// EntryNameSize is the name budget of an entry record
	EntryNameSize = 28
)

// Field offsets relative to the start of their record.
const (
	// entryCountOffset is the absolute offset of the directory entry count. The
	// field is assumed to be a u32; only the low bytes are ever non-zero in
	// known files.
	entryCountOffset = 0x0C

	sectionLabelSize        = 0x02
	sectionNameOffset       = 0x02
	sectionEntryCountOffset = 0x1C
	sectionFirstEntryOffset = 0x1E

	entryIDOffset = EntryNameSize
)

// SectionOffset returns the absolute byte offset of a section header
func SectionOffset(index int) int {
	return index*SectionSize + SectionTableOffset
}

// EntryOffset returns the absolute byte offset of an entry record
func EntryOffset(globalIndex uint16) int {
	return int(globalIndex)*EntrySize + EntryTableOffset
}

// FileSize returns the size of an encoded directory holding n entry slots
func FileSize(n int) int {
	return EntryTableOffset + n*EntrySize + TrailerSize
}
