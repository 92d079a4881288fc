package pfs

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"
)

// Chunk is one ordinal-tagged fragment of a subsection payload.
type Chunk struct {
	Ordinal uint16
	Payload []byte
}

// ChunkFromData splits a subsection's section data into its ordinal and the
// payload following the opaque prefix. Payload aliases data.
func ChunkFromData(data []byte) (Chunk, error) {
	if len(data) < ChunkPrefixSize {
		return Chunk{}, fmt.Errorf("%w: %d bytes, prefix is %d", ErrShortChunk, len(data), ChunkPrefixSize)
	}
	return Chunk{
		Ordinal: binary.LittleEndian.Uint16(data[ChunkOrdinalOffset : ChunkOrdinalOffset+2]),
		Payload: data[ChunkPrefixSize:],
	}, nil
}

// Reassemble orders chunks by ordinal and concatenates their payloads into a
// new buffer. Chunks sharing an ordinal keep their input order. The input slice
// is not modified.
func Reassemble(chunks []Chunk) []byte {
	sorted := slices.Clone(chunks)
	sortStableBy(sorted, func(c Chunk) uint16 { return c.Ordinal })

	total := 0
	for _, c := range sorted {
		total += len(c.Payload)
	}
	out := make([]byte, 0, total)
	for _, c := range sorted {
		out = append(out, c.Payload...)
	}
	return out
}

func sortStableBy[T any, K cmp.Ordered](s []T, key func(T) K) {
	slices.SortStableFunc(s, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}
