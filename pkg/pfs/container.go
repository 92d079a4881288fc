package pfs

import (
	"encoding/binary"
	"fmt"

	"github.com/samcharles93/pfsextract/internal/logger"
)

// Container is a validated view over one PFS container.
type Container struct {
	Header     Header    `json:"header"`
	Footer     Footer    `json:"footer"`
	Subsection bool      `json:"subsection"`
	Warnings   []Warning `json:"warnings,omitempty"`

	// Data spans the section list, between header and footer.
	Data []byte `json:"-"`
}

// ParseContainer validates the container at the start of buf and bounds its
// section list. The header's DataSize is authoritative; footer disagreements are
// reported through log and recorded as warnings.
func ParseContainer(buf []byte, subsection bool, log logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Discard()
	}
	if len(buf) < HeaderSize+FooterSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(buf))
	}

	hdr, ok := decodeHeader(buf)
	if !ok {
		return nil, ErrTooSmall
	}
	log.Info("PFS "+containerLabel(subsection)+" header",
		"signature", fmt.Sprintf("%X", binary.LittleEndian.Uint64(hdr.Magic[:])),
		"version", fmt.Sprintf("%X", hdr.Version),
		"data_size", fmt.Sprintf("%X", hdr.DataSize),
	)
	if !hdr.ValidMagic() {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, hdr.Magic[:])
	}
	if !hdr.Compatible() {
		return nil, fmt.Errorf("%w: %X", ErrUnsupportedVersion, hdr.Version)
	}

	// uint64 keeps the sum from wrapping on 32-bit platforms.
	need := uint64(HeaderSize) + uint64(hdr.DataSize) + uint64(FooterSize)
	if need > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedPayload, need, len(buf))
	}

	dataEnd := HeaderSize + int(hdr.DataSize)
	ftr, ok := decodeFooter(buf[dataEnd:])
	if !ok {
		return nil, ErrTruncatedPayload
	}
	log.Info("PFS "+containerLabel(subsection)+" footer",
		"signature", fmt.Sprintf("%X", binary.LittleEndian.Uint64(ftr.Magic[:])),
		"checksum", fmt.Sprintf("%X", ftr.Checksum),
		"data_size", fmt.Sprintf("%X", ftr.DataSize),
	)

	c := &Container{
		Header:     hdr,
		Footer:     ftr,
		Subsection: subsection,
		Data:       buf[HeaderSize:dataEnd:dataEnd],
	}
	if !ftr.ValidMagic() {
		c.warn(log, Warning{
			Kind:    FooterSignatureMismatch,
			Section: -1,
			Message: fmt.Sprintf("footer signature %q, want %q", ftr.Magic[:], FooterMagic),
		})
	}
	if ftr.DataSize != hdr.DataSize {
		c.warn(log, Warning{
			Kind:    FooterLengthMismatch,
			Section: -1,
			Message: fmt.Sprintf("header data size %X, footer data size %X", hdr.DataSize, ftr.DataSize),
		})
	}
	return c, nil
}

func (c *Container) warn(log logger.Logger, w Warning) {
	log.Warn(w.Message, "kind", w.Kind.String())
	c.Warnings = append(c.Warnings, w)
}

// Sections decodes the full section list. Decoding stops at the first
// malformed section.
func (c *Container) Sections() ([]Section, error) {
	var out []Section
	err := c.Walk(nil, func(s *Section) error {
		out = append(out, *s)
		return nil
	})
	return out, err
}

// Walk decodes sections in order and calls fn for each one until the data span
// is consumed. Section fields and version warnings are reported through log.
// An error from fn stops the walk and is returned unchanged.
func (c *Container) Walk(log logger.Logger, fn func(s *Section) error) error {
	if log == nil {
		log = logger.Discard()
	}
	for cur, idx := 0, 0; cur < len(c.Data); idx++ {
		s, next, err := DecodeSection(c.Data, cur, idx)
		if err != nil {
			return err
		}
		c.logSection(log, &s)
		if err := fn(&s); err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func (c *Container) logSection(log logger.Logger, s *Section) {
	label := "PFS section header"
	if c.Subsection {
		label = "PFS subsection header"
	}
	args := []any{
		"index", s.Index,
		"guid1", s.Header.GUID1.String(),
		"guid2", s.Header.GUID2.String(),
		"data_size", fmt.Sprintf("%X", s.Header.DataSize),
		"data_signature_size", fmt.Sprintf("%X", s.Header.DataSignatureSize),
		"metadata_size", fmt.Sprintf("%X", s.Header.MetadataSize),
		"metadata_signature_size", fmt.Sprintf("%X", s.Header.MetadataSignatureSize),
	}
	if s.Version != "" {
		args = append(args, "version", s.Version)
	}
	log.Info(label, args...)
	for _, w := range s.Warnings {
		log.Warn(w.Message, "kind", w.Kind.String(), "section", w.Section)
	}
}

func containerLabel(subsection bool) string {
	if subsection {
		return "subsection file"
	}
	return "file"
}
