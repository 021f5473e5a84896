package asn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntryOffset(t *testing.T) {
	require.Equal(t, 0x250, EntryOffset(0))
	require.Equal(t, 0x270, EntryOffset(1))
	require.Equal(t, 0x250+0x20*100, Entry{Index: 100}.Offset())
	require.Equal(t, 0x250+0x20*0xFFFF, EntryOffset(0xFFFF))
}

func TestEntry_Bytes(t *testing.T) {
	t.Run("Name padding", func(t *testing.T) {
		for _, name := range []string{"", "A", "Foo", strings.Repeat("x", EntryNameSize)} {
			b, err := Entry{Name: name, ID: 0x0102A0FF}.Bytes()
			require.NoError(t, err)
			require.Len(t, b, EntrySize)
			require.Equal(t, []byte(name), b[:len(name)])
			require.Equal(t, make([]byte, EntryNameSize-len(name)), b[len(name):EntryNameSize])
			require.Equal(t, []byte{0x01, 0x02, 0xA0, 0xFF}, b[28:32])
		}
	})

	t.Run("Name too long", func(t *testing.T) {
		_, err := Entry{Index: 4, Name: strings.Repeat("x", EntryNameSize+1)}.Bytes()
		require.ErrorIs(t, err, ErrNameTooLong)
		require.Contains(t, err.Error(), "entry 4")
	})

	t.Run("Non-ASCII name", func(t *testing.T) {
		_, err := Entry{Name: "café"}.Bytes()
		require.ErrorIs(t, err, ErrNonASCIIName)

		_, err = Entry{Name: "A\x80"}.Bytes()
		require.ErrorIs(t, err, ErrNonASCIIName)
	})

	t.Run("Control bytes are kept", func(t *testing.T) {
		want := Entry{Index: 0, Name: "A\x01B\x00C\x7f", ID: 1}
		record, err := want.Bytes()
		require.NoError(t, err)

		data := make([]byte, FileSize(1))
		copy(data[EntryTableOffset:], record)
		got, err := DecodeEntry(data, 0)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestDecodeEntry(t *testing.T) {
	t.Run("Valid record", func(t *testing.T) {
		data := make([]byte, FileSize(2))
		copy(data[0x270:], "Bar")
		copy(data[0x270+28:], []byte{0x00, 0x00, 0x00, 0x2B})

		e, err := DecodeEntry(data, 1)
		require.NoError(t, err)
		require.Equal(t, Entry{Index: 1, Name: "Bar", ID: 0x2B}, e)
	})

	t.Run("Full width name", func(t *testing.T) {
		data := make([]byte, FileSize(1))
		name := strings.Repeat("N", EntryNameSize)
		copy(data[EntryTableOffset:], name)

		e, err := DecodeEntry(data, 0)
		require.NoError(t, err)
		require.Equal(t, name, e.Name)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := make([]byte, EntryTableOffset+EntrySize-1)
		_, err := DecodeEntry(data, 0)
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("Non-ASCII name", func(t *testing.T) {
		data := make([]byte, FileSize(1))
		data[EntryTableOffset] = 0xC3
		_, err := DecodeEntry(data, 0)
		require.ErrorIs(t, err, ErrNonASCIIName)
	})

	t.Run("Round trip", func(t *testing.T) {
		want := Entry{Index: 3, Name: "em_Link_01", ID: 0xDEADBEEF}
		record, err := want.Bytes()
		require.NoError(t, err)

		data := make([]byte, FileSize(4))
		copy(data[want.Offset():], record)

		got, err := DecodeEntry(data, 3)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestEntryLine(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		require.Equal(t, "0,Foo,0x1a", FormatEntryLine(Entry{Index: 0, Name: "Foo", ID: 0x1A}))
		require.Equal(t, "12,,0x0", FormatEntryLine(Entry{Index: 12}))
	})

	t.Run("Parse", func(t *testing.T) {
		cases := map[string]Entry{
			"0,Foo,0x1a":        {Index: 0, Name: "Foo", ID: 0x1A},
			"1,Bar,2B":          {Index: 1, Name: "Bar", ID: 0x2B},
			"7,With Space,0XFF": {Index: 7, Name: "With Space", ID: 0xFF},
			"9,,0xffffffff":     {Index: 9, Name: "", ID: 0xFFFFFFFF},
		}
		for line, want := range cases {
			got, err := ParseEntryLine(line)
			require.NoError(t, err, line)
			require.Equal(t, want, got, line)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, line := range []string{
			"",
			"0,Foo",
			"0,Fo,o,0x1",
			"x,Foo,0x1",
			"-1,Foo,0x1",
			"70000,Foo,0x1",
			"0,Foo,0xZZ",
			"0,Foo,0x100000000",
		} {
			_, err := ParseEntryLine(line)
			require.ErrorIs(t, err, ErrMalformedLine, line)
		}
	})

	t.Run("Round trip", func(t *testing.T) {
		want := Entry{Index: 513, Name: "Link", ID: 0x00C0FFEE}
		got, err := ParseEntryLine(FormatEntryLine(want))
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestPadName(t *testing.T) {
	b, err := padName("Foo", SectionNameSize)
	require.NoError(t, err)
	require.Len(t, b, SectionNameSize)
	require.True(t, bytes.HasPrefix(b, []byte("Foo")))
	require.Equal(t, make([]byte, SectionNameSize-3), b[3:])

	name, err := readName(b)
	require.NoError(t, err)
	require.Equal(t, "Foo", name)
}
