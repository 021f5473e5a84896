package asn

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionOffset(t *testing.T) {
	require.Equal(t, 0x10, SectionOffset(0))
	require.Equal(t, 0x30, SectionOffset(1))
	require.Equal(t, 0x230, SectionOffset(17))
	require.Equal(t, EntryTableOffset, SectionOffset(SectionCount))
}

func TestSection_Label(t *testing.T) {
	require.Equal(t, " 0", (&Section{Index: 0}).Label())
	require.Equal(t, " 9", (&Section{Index: 9}).Label())
	require.Equal(t, "10", (&Section{Index: 10}).Label())
	require.Equal(t, "17", (&Section{Index: 17}).Label())
}

func TestSection_HeaderBytes(t *testing.T) {
	t.Run("Layout", func(t *testing.T) {
		s := &Section{Index: 3, Name: "Player", EntryCount: 0x0102, FirstEntryIndex: 0x0304}
		b, err := s.HeaderBytes()
		require.NoError(t, err)
		require.Len(t, b, SectionSize)

		require.Equal(t, " 3", string(b[0:2]))
		require.Equal(t, "Player", string(b[2:8]))
		require.Equal(t, make([]byte, SectionNameSize-6), b[8:0x1C])
		require.Equal(t, uint16(0x0102), binary.BigEndian.Uint16(b[0x1C:]))
		require.Equal(t, uint16(0x0304), binary.BigEndian.Uint16(b[0x1E:]))
	})

	t.Run("Full width name", func(t *testing.T) {
		s := &Section{Index: 12, Name: strings.Repeat("S", SectionNameSize)}
		b, err := s.HeaderBytes()
		require.NoError(t, err)
		require.Equal(t, "12", string(b[0:2]))
		require.Equal(t, strings.Repeat("S", SectionNameSize), string(b[2:0x1C]))
	})

	t.Run("Name of 27 characters", func(t *testing.T) {
		s := &Section{Index: 0, Name: strings.Repeat("S", 27)}
		_, err := s.HeaderBytes()
		require.ErrorIs(t, err, ErrNameTooLong)
	})

	t.Run("Index out of range", func(t *testing.T) {
		_, err := (&Section{Index: SectionCount}).HeaderBytes()
		require.ErrorIs(t, err, ErrStructuralMismatch)
	})
}

func TestDecodeSection(t *testing.T) {
	t.Run("Header and entries", func(t *testing.T) {
		data := make([]byte, FileSize(3))

		header, err := (&Section{Index: 2, Name: "Items", EntryCount: 2, FirstEntryIndex: 1}).HeaderBytes()
		require.NoError(t, err)
		copy(data[SectionOffset(2):], header)

		for _, e := range []Entry{{Index: 1, Name: "Sword", ID: 0x10}, {Index: 2, Name: "Shield", ID: 0x11}} {
			record, err := e.Bytes()
			require.NoError(t, err)
			copy(data[e.Offset():], record)
		}

		s, err := DecodeSection(data, 2)
		require.NoError(t, err)
		require.Equal(t, 2, s.Index)
		require.Equal(t, "Items", s.Name)
		require.Equal(t, uint16(2), s.EntryCount)
		require.Equal(t, uint16(1), s.FirstEntryIndex)
		require.Equal(t, []Entry{{Index: 1, Name: "Sword", ID: 0x10}, {Index: 2, Name: "Shield", ID: 0x11}}, s.Entries)
	})

	t.Run("Entries past end of data", func(t *testing.T) {
		data := make([]byte, FileSize(0))
		binary.BigEndian.PutUint16(data[SectionOffset(0)+0x1C:], 1)

		_, err := DecodeSection(data, 0)
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("Header past end of data", func(t *testing.T) {
		_, err := DecodeSection(make([]byte, 0x20), 1)
		require.ErrorIs(t, err, ErrMalformedHeader)
	})
}

func TestSection_SortEntries(t *testing.T) {
	s := &Section{Entries: []Entry{{Index: 5}, {Index: 3}, {Index: 4}}}
	s.SortEntries()
	require.Equal(t, []Entry{{Index: 3}, {Index: 4}, {Index: 5}}, s.Entries)
}
