package pfs

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionHeader is the fixed 72-byte record preceding each section's payloads.
type SectionHeader struct {
	GUID1                 GUID      `json:"guid1"`
	HeaderVersion         uint32    `json:"header_version"`
	VersionType           [4]byte   `json:"-"`
	Version               [4]uint16 `json:"-"`
	Reserved              uint64    `json:"-"`
	DataSize              uint32    `json:"data_size"`
	DataSignatureSize     uint32    `json:"data_signature_size"`
	MetadataSize          uint32    `json:"metadata_size"`
	MetadataSignatureSize uint32    `json:"metadata_signature_size"`
	GUID2                 GUID      `json:"guid2"`
}

// PayloadSize is the number of bytes following the header up to the next section.
func (h *SectionHeader) PayloadSize() uint64 {
	return uint64(h.DataSize) + uint64(h.DataSignatureSize) +
		uint64(h.MetadataSize) + uint64(h.MetadataSignatureSize)
}

// Section is one decoded section. The payload slices alias the container data.
type Section struct {
	Index    int           `json:"index"`
	Offset   int           `json:"offset"`
	Header   SectionHeader `json:"header"`
	Version  string        `json:"version,omitempty"`
	Warnings []Warning     `json:"warnings,omitempty"`

	Data              []byte `json:"-"`
	DataSignature     []byte `json:"-"`
	Metadata          []byte `json:"-"`
	MetadataSignature []byte `json:"-"`
}

// ArtifactName names one of the section's artifacts, e.g. section_0_1.2.data.
// Sections without a recognised version use a lone "." in its place.
func (s *Section) ArtifactName(kind string) string {
	v := s.Version
	if v == "" {
		v = "."
	}
	return "section_" + strconv.Itoa(s.Index) + "_" + v + kind
}

// HasContainer reports whether the section data is itself a PFS container.
func (s *Section) HasContainer() bool {
	return len(s.Data) >= len(HeaderMagic) && string(s.Data[:len(HeaderMagic)]) == HeaderMagic
}

// DecodeSection decodes the section whose header starts at data[cur:].
// index is only used for naming and warnings. It returns the section and the
// offset of the next section header.
func DecodeSection(data []byte, cur, index int) (Section, int, error) {
	s := Section{Index: index, Offset: cur}
	if cur < 0 || cur > len(data) {
		return s, cur, fmt.Errorf("%w: section %d cursor %d outside %d bytes", ErrSectionOverrun, index, cur, len(data))
	}

	c := newCursor(data, cur)
	if c.remaining() < SectionHeaderSize {
		return s, cur, fmt.Errorf("%w: section %d header needs %d bytes, have %d",
			ErrSectionOverrun, index, SectionHeaderSize, c.remaining())
	}
	h, err := readSectionHeader(c)
	if err != nil {
		return s, cur, fmt.Errorf("%w: section %d header: %v", ErrSectionOverrun, index, err)
	}
	s.Header = h

	if h.PayloadSize() > uint64(c.remaining()) {
		return s, cur, fmt.Errorf("%w: section %d declares %d payload bytes, have %d",
			ErrSectionOverrun, index, h.PayloadSize(), c.remaining())
	}
	// The size check above guarantees these takes succeed.
	s.Data, _ = c.take(int(h.DataSize))
	s.DataSignature, _ = c.take(int(h.DataSignatureSize))
	s.Metadata, _ = c.take(int(h.MetadataSize))
	s.MetadataSignature, _ = c.take(int(h.MetadataSignatureSize))

	s.Version, s.Warnings = versionString(h.VersionType, h.Version, index)
	return s, c.off, nil
}

func readSectionHeader(c *cursor) (SectionHeader, error) {
	var h SectionHeader
	var err error
	if h.GUID1, err = c.readGUID(); err != nil {
		return h, err
	}
	if h.HeaderVersion, err = c.readU32(); err != nil {
		return h, err
	}
	for i := range h.VersionType {
		if h.VersionType[i], err = c.readU8(); err != nil {
			return h, err
		}
	}
	for i := range h.Version {
		if h.Version[i], err = c.readU16(); err != nil {
			return h, err
		}
	}
	if h.Reserved, err = c.readU64(); err != nil {
		return h, err
	}
	sizes := [4]*uint32{&h.DataSize, &h.DataSignatureSize, &h.MetadataSize, &h.MetadataSignatureSize}
	for _, p := range sizes {
		if *p, err = c.readU32(); err != nil {
			return h, err
		}
	}
	if h.GUID2, err = c.readGUID(); err != nil {
		return h, err
	}
	return h, nil
}

// versionString renders the (type, component) pairs. 'A' components are
// hexadecimal, 'N' decimal, each followed by a dot. A space or NUL type ends the
// scan; anything else is skipped with a warning.
func versionString(types [4]byte, comps [4]uint16, index int) (string, []Warning) {
	var b strings.Builder
	var warnings []Warning
	for i, t := range types {
		switch t {
		case 'A':
			fmt.Fprintf(&b, "%X.", comps[i])
		case 'N':
			fmt.Fprintf(&b, "%d.", comps[i])
		case ' ', 0:
			return b.String(), warnings
		default:
			warnings = append(warnings, Warning{
				Kind:    UnknownVersionType,
				Section: index,
				Message: fmt.Sprintf("unknown version type %X, value %X", t, comps[i]),
			})
		}
	}
	return b.String(), warnings
}
