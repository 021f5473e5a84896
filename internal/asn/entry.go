package asn

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Entry is a single named resource record
type Entry struct {
	// Index is the position among all entries of the directory
	Index uint16
	Name  string
	ID    uint32
}

// Offset returns the absolute byte offset of the entry record
func (e Entry) Offset() int {
	return EntryOffset(e.Index)
}

// DecodeEntry reads the entry record for the given global index from data
func DecodeEntry(data []byte, index uint16) (Entry, error) {
	off := EntryOffset(index)
	if off+EntrySize > len(data) {
		return Entry{}, fmt.Errorf("%w: entry %d at 0x%x needs %d bytes, have %d",
			ErrTruncated, index, off, off+EntrySize, len(data))
	}

	record := data[off : off+EntrySize]
	name, err := readName(record[:EntryNameSize])
	if err != nil {
		return Entry{}, fmt.Errorf("entry %d name: %w", index, err)
	}

	return Entry{
		Index: index,
		Name:  name,
		ID:    binary.BigEndian.Uint32(record[entryIDOffset:]),
	}, nil
}

// Bytes serializes the entry into its 32 byte record
func (e Entry) Bytes() ([]byte, error) {
	name, err := padName(e.Name, EntryNameSize)
	if err != nil {
		return nil, fmt.Errorf("entry %d name: %w", e.Index, err)
	}

	b := make([]byte, EntrySize)
	copy(b, name)
	binary.BigEndian.PutUint32(b[entryIDOffset:], e.ID)
	return b, nil
}

// FormatEntryLine renders an entry as "<index>,<name>,<hex id>"
func FormatEntryLine(e Entry) string {
	return strconv.Itoa(int(e.Index)) + "," + e.Name + ",0x" + strconv.FormatUint(uint64(e.ID), 16)
}

// ParseEntryLine parses a line produced by FormatEntryLine. The ID may be
// written with or without a 0x prefix.
func ParseEntryLine(line string) (Entry, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("%w: %q has %d fields, want 3", ErrMalformedLine, line, len(fields))
	}

	index, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q: index: %v", ErrMalformedLine, line, err)
	}

	hex := strings.TrimSpace(fields[2])
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	id, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q: id: %v", ErrMalformedLine, line, err)
	}

	return Entry{
		Index: uint16(index),
		Name:  fields[1],
		ID:    uint32(id),
	}, nil
}
