package asn

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const sectionKeyPrefix = "Section "

// sectionDocument is the editable form of one section. Field order matches
// the order the fields are written in.
type sectionDocument struct {
	Name            string   `yaml:"Name"`
	NumEntries      uint16   `yaml:"NumEntries"`
	FirstEntryIndex uint16   `yaml:"FirstEntryIndex"`
	Entries         []string `yaml:"Entries"`
}

// SectionKey returns the document key of a section ("Section 3")
func SectionKey(index int) string {
	return sectionKeyPrefix + strconv.Itoa(index)
}

// parseSectionKey returns the section index named by a document key
func parseSectionKey(key string) (int, error) {
	rest, ok := strings.CutPrefix(key, sectionKeyPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected key %q", ErrStructuralMismatch, key)
	}

	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 || index >= SectionCount {
		return 0, fmt.Errorf("%w: key %q does not name a section 0-%d", ErrStructuralMismatch, key, SectionCount-1)
	}

	return index, nil
}

// MarshalDocument renders a directory as YAML, one "Section <n>" mapping per
// section in index order
func MarshalDocument(d *Directory) ([]byte, error) {
	if err := d.checkSectionSet(); err != nil {
		return nil, err
	}

	ordered := make([]*Section, SectionCount)
	for i := range d.Sections {
		ordered[d.Sections[i].Index] = &d.Sections[i]
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range ordered {
		doc := sectionDocument{
			Name:            s.Name,
			NumEntries:      s.EntryCount,
			FirstEntryIndex: s.FirstEntryIndex,
			Entries:         make([]string, 0, len(s.Entries)),
		}
		for _, e := range s.Entries {
			if strings.Contains(e.Name, ",") {
				return nil, fmt.Errorf("%w: section %d entry %d name %q contains a comma", ErrMalformedLine, s.Index, e.Index, e.Name)
			}
			doc.Entries = append(doc.Entries, FormatEntryLine(e))
		}

		value := &yaml.Node{}
		if err := value.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding section %d: %w", s.Index, err)
		}

		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: SectionKey(s.Index)}
		root.Content = append(root.Content, key, value)
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}

	return out, nil
}

// UnmarshalDocument parses YAML produced by MarshalDocument (or edited by
// hand) back into a directory. The entry count is recomputed from the
// sections' NumEntries.
func UnmarshalDocument(data []byte, options *CodecOptions) (*Directory, error) {
	if options == nil {
		options = DefaultCodecOptions()
	}

	var raw map[string]sectionDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	sections := make([]Section, SectionCount)
	var seen [SectionCount]bool

	for key, doc := range raw {
		index, err := parseSectionKey(key)
		if err != nil {
			return nil, err
		}
		// "Section 3" and "Section 03" are different keys for the same section
		if seen[index] {
			return nil, fmt.Errorf("%w: section %d appears more than once", ErrStructuralMismatch, index)
		}
		seen[index] = true

		s := Section{
			Index:           index,
			Name:            doc.Name,
			EntryCount:      doc.NumEntries,
			FirstEntryIndex: doc.FirstEntryIndex,
			Entries:         make([]Entry, 0, len(doc.Entries)),
		}
		for _, line := range doc.Entries {
			entry, err := ParseEntryLine(line)
			if err != nil {
				return nil, fmt.Errorf("section %d: %w", index, err)
			}
			s.Entries = append(s.Entries, entry)
		}
		s.SortEntries()

		sections[index] = s
	}

	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: section %d is missing", ErrStructuralMismatch, i)
		}
	}

	d := NewDirectory(sections)
	if options.Strict {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	return d, nil
}
