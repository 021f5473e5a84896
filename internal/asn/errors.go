package asn

import "errors"

// Sentinel errors returned by the codec. They are wrapped with the region and
// field that failed, so callers should compare with errors.Is.
var (
	// ErrMalformedHeader is returned when the fixed header region is missing or invalid.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrNameTooLong is returned when a name does not fit its fixed-size field.
	ErrNameTooLong = errors.New("name exceeds field size")

	// ErrNonASCIIName is returned when a name contains bytes outside ASCII.
	ErrNonASCIIName = errors.New("name is not ASCII")

	// ErrMalformedLine is returned when a structured entry line cannot be parsed.
	ErrMalformedLine = errors.New("malformed entry line")

	// ErrStructuralMismatch is returned when section ranges, entry counts or the
	// section set disagree with each other.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrTruncated is returned when an entry record extends past the end of the data.
	ErrTruncated = errors.New("data truncated")
)
