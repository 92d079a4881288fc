package sink

import (
	"encoding/hex"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/zeebo/blake3"
)

// ManifestName is the file name used when a manifest is written next to the
// artifacts it describes.
const ManifestName = "manifest.json"

// Entry describes one written artifact.
type Entry struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	BLAKE3 string `json:"blake3"`
}

// Manifest forwards writes to another sink and records each successful one.
type Manifest struct {
	next Writer

	mu      sync.Mutex
	entries []Entry
}

// Writer is the sink contract shared with pfs.Sink.
type Writer interface {
	Write(name string, data []byte) error
}

func NewManifest(next Writer) *Manifest {
	return &Manifest{next: next}
}

func (m *Manifest) Write(name string, data []byte) error {
	if err := m.next.Write(name, data); err != nil {
		return err
	}
	sum := blake3.Sum256(data)
	m.mu.Lock()
	m.entries = append(m.entries, Entry{
		Name:   name,
		Size:   len(data),
		BLAKE3: hex.EncodeToString(sum[:]),
	})
	m.mu.Unlock()
	return nil
}

// Entries returns recorded artifacts in write order.
func (m *Manifest) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Document is the serialised manifest.
type Document struct {
	Source    string  `json:"source,omitempty"`
	Artifacts []Entry `json:"artifacts"`
}

// Marshal renders the manifest as indented JSON.
func (m *Manifest) Marshal(source string) ([]byte, error) {
	doc := Document{Source: source, Artifacts: m.Entries()}
	if doc.Artifacts == nil {
		doc.Artifacts = []Entry{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
