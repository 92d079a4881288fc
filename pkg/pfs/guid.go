package pfs

import (
	"strings"

	"github.com/google/uuid"
)

// GUID is a 16-byte section identifier in EFI layout: a little-endian uint32,
// two little-endian uint16 values and eight raw bytes.
type GUID [16]byte

// UUID converts the EFI mixed-endian layout to RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	return uuid.UUID{
		g[3], g[2], g[1], g[0],
		g[5], g[4],
		g[7], g[6],
		g[8], g[9], g[10], g[11], g[12], g[13], g[14], g[15],
	}
}

// String renders the GUID as XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX.
func (g GUID) String() string {
	return strings.ToUpper(g.UUID().String())
}

func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
