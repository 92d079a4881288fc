package pfs

import "strconv"

// Magic is an 8-byte ASCII signature.
type Magic [8]byte

func (m Magic) String() string {
	return string(m[:])
}

func (m Magic) MarshalText() ([]byte, error) {
	q := strconv.QuoteToASCII(m.String())
	return []byte(q[1 : len(q)-1]), nil
}

// Header opens every PFS container.
type Header struct {
	Magic    Magic  `json:"magic"`
	Version  uint32 `json:"version"`
	DataSize uint32 `json:"data_size"`
}

// Footer closes every PFS container. Checksum is carried but not verified.
type Footer struct {
	DataSize uint32 `json:"data_size"`
	Checksum uint32 `json:"checksum"`
	Magic    Magic  `json:"magic"`
}

func (h *Header) ValidMagic() bool {
	return string(h.Magic[:]) == HeaderMagic
}

func (h *Header) Compatible() bool {
	return h.Version == SupportedVersion
}

func (f *Footer) ValidMagic() bool {
	return string(f.Magic[:]) == FooterMagic
}

func decodeHeader(b []byte) (Header, bool) {
	var h Header
	if len(b) < HeaderSize {
		return h, false
	}
	c := newCursor(b[:HeaderSize], 0)
	var err error
	var m [8]byte
	if m, err = c.readArray8(); err != nil {
		return h, false
	}
	h.Magic = Magic(m)
	if h.Version, err = c.readU32(); err != nil {
		return h, false
	}
	if h.DataSize, err = c.readU32(); err != nil {
		return h, false
	}
	return h, true
}

func decodeFooter(b []byte) (Footer, bool) {
	var f Footer
	if len(b) < FooterSize {
		return f, false
	}
	c := newCursor(b[:FooterSize], 0)
	var err error
	if f.DataSize, err = c.readU32(); err != nil {
		return f, false
	}
	if f.Checksum, err = c.readU32(); err != nil {
		return f, false
	}
	m, err := c.readArray8()
	if err != nil {
		return f, false
	}
	f.Magic = Magic(m)
	return f, true
}
