package asn

import (
	"bytes"
	"fmt"
)

// padName encodes name into exactly size bytes, left justified and zero padded
func padName(name string, size int) ([]byte, error) {
	if err := checkASCII([]byte(name)); err != nil {
		return nil, err
	}
	if len(name) > size {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrNameTooLong, len(name), size)
	}

	b := make([]byte, size)
	copy(b, name)
	return b, nil
}

// readName strips trailing zero bytes from a fixed-size name field
func readName(field []byte) (string, error) {
	trimmed := bytes.TrimRight(field, "\x00")
	if err := checkASCII(trimmed); err != nil {
		return "", err
	}
	return string(trimmed), nil
}

// checkASCII rejects bytes above 0x7F. Control bytes pass so that any name a
// file can hold also encodes back to the same bytes.
func checkASCII(b []byte) error {
	for i, c := range b {
		if c > 0x7F {
			return fmt.Errorf("%w: byte 0x%02x at position %d", ErrNonASCIIName, c, i)
		}
	}
	return nil
}
