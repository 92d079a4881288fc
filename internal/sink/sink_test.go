package sink

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/zeebo/blake3"
)

func TestValidName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ok   bool
	}{
		{"section_0_.data", true},
		{"section_3_1.2.A.payload", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../escape", false},
		{`a\b`, false},
		{"nul\x00byte", false},
	}
	for _, tc := range tests {
		err := ValidName(tc.name)
		if (err == nil) != tc.ok {
			t.Errorf("ValidName(%q): err=%v, want ok=%v", tc.name, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidName(%q): expected ErrInvalidName, got %v", tc.name, err)
		}
	}
}

func TestDirWrite(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "bios.bin.extracted")
	d, err := CreateDir(out, false)
	if err != nil {
		t.Fatalf("create dir: %v", err)
	}
	defer func() { _ = d.Close() }()

	if err := d.Write("section_0_.data", []byte{1, 2, 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(d.Path(), "section_0_.data"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("content mismatch: %v", got)
	}

	if err := d.Write("../x", nil); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestCreateDirExisting(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	_, err := CreateDir(out, false)
	var de *DirError
	if !errors.As(err, &de) || de.Op != "create" {
		t.Fatalf("expected create DirError, got %v", err)
	}

	d, err := CreateDir(out, true)
	if err != nil {
		t.Fatalf("force create: %v", err)
	}
	_ = d.Close()
}

func TestMemoryOrderAndCopy(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	buf := []byte("abc")
	if err := m.Write("b", buf); err != nil {
		t.Fatal(err)
	}
	if err := m.Write("a", nil); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	if names := m.Names(); len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("unexpected order: %v", names)
	}
	got, ok := m.Get("b")
	if !ok || string(got) != "abc" {
		t.Fatalf("memory sink did not copy input: %q", got)
	}
	if err := m.Write("b", nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestManifest(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	m := NewManifest(mem)
	payload := []byte("firmware")
	if err := m.Write("section_0_.data", payload); err != nil {
		t.Fatal(err)
	}
	if err := m.Write("../bad", payload); err == nil {
		t.Fatal("expected invalid name to propagate")
	}

	entries := m.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	sum := blake3.Sum256(payload)
	if entries[0].BLAKE3 != hex.EncodeToString(sum[:]) || entries[0].Size != len(payload) {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}

	raw, err := m.Marshal("bios.bin")
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if doc.Source != "bios.bin" || len(doc.Artifacts) != 1 || doc.Artifacts[0].Name != "section_0_.data" {
		t.Fatalf("unexpected manifest: %+v", doc)
	}
}

func TestManifestEmpty(t *testing.T) {
	t.Parallel()

	raw, err := NewManifest(NewMemory()).Marshal("")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte(`"artifacts": []`)) {
		t.Fatalf("expected empty artifact list, got %s", raw)
	}
}

// Get returns the artifact data by name. Test only.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.artifacts[i].Data, true
}

// Names returns artifact names in write order. Test only.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.artifacts))
	for i, a := range m.artifacts {
		out[i] = a.Name
	}
	return out
}
