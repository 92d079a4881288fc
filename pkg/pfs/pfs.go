// Package pfs decodes Dell PFS firmware update containers.
//
// A PFS image is a fixed header, a packed list of sections and a fixed footer.
// Each section carries up to four payloads (data, data signature, metadata and
// metadata signature). Section data may itself be a PFS container; such nested
// "subsection" containers hold ordered chunks of one larger payload.
//
// Parsed values borrow from the input buffer. Only reassembled subsection
// payloads are freshly allocated.
package pfs

// On-disk constants. All integers are little-endian.
const (
	// HeaderMagic starts every container, including nested ones.
	HeaderMagic = "PFS.HDR."
	// FooterMagic ends every container. A mismatch is advisory.
	FooterMagic = "PFS.FTR."

	// SupportedVersion is the only container header version understood.
	SupportedVersion uint32 = 1

	HeaderSize        = 16
	FooterSize        = 16
	SectionHeaderSize = 72

	// ChunkPrefixSize is the opaque block preceding each chunk payload in a
	// subsection container. Only the ordinal inside it is interpreted.
	ChunkPrefixSize = 0x248
	// ChunkOrdinalOffset locates the uint16 chunk ordinal within the prefix.
	ChunkOrdinalOffset = 0x3E
)

// Artifact kinds, used as the suffix of emitted artifact names.
const (
	KindData              = "data"
	KindDataSignature     = "sign"
	KindMetadata          = "meta"
	KindMetadataSignature = "mtsg"
	KindPayload           = "payload"
)
