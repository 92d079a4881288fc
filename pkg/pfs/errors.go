package pfs

import "errors"

// Fatal decoding errors. Callers match them with errors.Is.
var (
	// ErrTooSmall: the buffer cannot hold a header and a footer.
	ErrTooSmall = errors.New("pfs: buffer too small for header and footer")
	// ErrBadSignature: the header does not start with HeaderMagic.
	ErrBadSignature = errors.New("pfs: invalid header signature")
	// ErrUnsupportedVersion: the header version is not SupportedVersion.
	ErrUnsupportedVersion = errors.New("pfs: unsupported header version")
	// ErrTruncatedPayload: header, declared data and footer exceed the buffer.
	ErrTruncatedPayload = errors.New("pfs: declared data size exceeds buffer")
	// ErrSectionOverrun: a section header or its payloads run past the data span.
	ErrSectionOverrun = errors.New("pfs: section overruns container data")
	// ErrShortChunk: subsection section data is shorter than ChunkPrefixSize.
	ErrShortChunk = errors.New("pfs: chunk shorter than its prefix")
)

// ErrSink wraps failures returned by an artifact Sink. Sink failures always
// abort extraction, including inside nested containers.
var ErrSink = errors.New("pfs: artifact sink")
