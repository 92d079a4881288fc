package pfs

import (
	"encoding/binary"
)

// testSection describes a section to encode in synthetic images.
type testSection struct {
	guid1, guid2 GUID
	types        [4]byte
	version      [4]uint16
	data         []byte
	sign         []byte
	meta         []byte
	mtsg         []byte
}

func encodeSection(s testSection) []byte {
	out := make([]byte, 0, SectionHeaderSize+len(s.data)+len(s.sign)+len(s.meta)+len(s.mtsg))
	out = append(out, s.guid1[:]...)
	out = binary.LittleEndian.AppendUint32(out, 1)
	out = append(out, s.types[:]...)
	for _, v := range s.version {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	out = binary.LittleEndian.AppendUint64(out, 0)
	for _, p := range [][]byte{s.data, s.sign, s.meta, s.mtsg} {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(p)))
	}
	out = append(out, s.guid2[:]...)
	for _, p := range [][]byte{s.data, s.sign, s.meta, s.mtsg} {
		out = append(out, p...)
	}
	return out
}

// testImage describes a container. Zero values produce a well-formed image.
type testImage struct {
	magic       string
	version     uint32
	footerMagic string
	// footerSize overrides the footer data size when non-nil.
	footerSize *uint32
	// dataSize overrides the header data size when non-nil.
	dataSize *uint32
	checksum uint32
	sections []testSection
	// raw is appended to the encoded sections.
	raw []byte
}

func (ti testImage) bytes() []byte {
	var body []byte
	for _, s := range ti.sections {
		body = append(body, encodeSection(s)...)
	}
	body = append(body, ti.raw...)

	magic := ti.magic
	if magic == "" {
		magic = HeaderMagic
	}
	version := ti.version
	if version == 0 {
		version = SupportedVersion
	}
	footerMagic := ti.footerMagic
	if footerMagic == "" {
		footerMagic = FooterMagic
	}
	size := uint32(len(body))
	if ti.dataSize != nil {
		size = *ti.dataSize
	}
	fsize := size
	if ti.footerSize != nil {
		fsize = *ti.footerSize
	}

	out := make([]byte, 0, HeaderSize+len(body)+FooterSize)
	out = append(out, magic[:8]...)
	out = binary.LittleEndian.AppendUint32(out, version)
	out = binary.LittleEndian.AppendUint32(out, size)
	out = append(out, body...)
	out = binary.LittleEndian.AppendUint32(out, fsize)
	out = binary.LittleEndian.AppendUint32(out, ti.checksum)
	out = append(out, footerMagic[:8]...)
	return out
}

func container(sections ...testSection) []byte {
	return testImage{sections: sections}.bytes()
}

// chunkData builds a subsection section payload: the opaque prefix carrying
// ordinal at ChunkOrdinalOffset, followed by payload.
func chunkData(ordinal uint16, payload []byte) []byte {
	out := make([]byte, ChunkPrefixSize, ChunkPrefixSize+len(payload))
	for i := range out {
		out[i] = 0xA5
	}
	binary.LittleEndian.PutUint16(out[ChunkOrdinalOffset:], ordinal)
	return append(out, payload...)
}

// subsection builds a nested container whose sections are the given chunks.
func subsection(chunks ...Chunk) []byte {
	sections := make([]testSection, len(chunks))
	for i, c := range chunks {
		sections[i] = testSection{data: chunkData(c.Ordinal, c.Payload)}
	}
	return container(sections...)
}

func u32(v uint32) *uint32 { return &v }

// recordingSink is a Sink that keeps writes in order.
type recordingSink struct {
	names []string
	data  map[string][]byte
	fail  string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{data: make(map[string][]byte)}
}

func (s *recordingSink) Write(name string, data []byte) error {
	if name == s.fail {
		return errSinkFull
	}
	s.names = append(s.names, name)
	s.data[name] = append([]byte{}, data...)
	return nil
}

type sinkErr string

func (e sinkErr) Error() string { return string(e) }

const errSinkFull = sinkErr("disk full")
