package pfs

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestDecodeTree(t *testing.T) {
	t.Parallel()

	nested := subsection(Chunk{Ordinal: 1, Payload: []byte("bb")}, Chunk{Ordinal: 0, Payload: []byte("a")})
	buf := container(
		testSection{data: nested, guid1: GUID{0xAA}},
		testSection{data: container(testSection{data: []byte("short")})},
		testSection{sign: []byte("s")},
	)

	tree, err := Decode(buf, false, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tree.Sections) != 3 {
		t.Fatalf("sections: %d", len(tree.Sections))
	}

	n0 := tree.Sections[0]
	if n0.Nested == nil || n0.NestedError != "" {
		t.Fatalf("section 0 nested: %+v", n0)
	}
	if len(n0.Nested.Chunks) != 2 || n0.Nested.PayloadSize != 3 {
		t.Fatalf("nested chunks: %+v size %d", n0.Nested.Chunks, n0.Nested.PayloadSize)
	}
	if n0.Nested.Chunks[0].Ordinal != 1 || n0.Nested.Chunks[0].Size != 2 {
		t.Fatalf("chunks keep discovery order: %+v", n0.Nested.Chunks)
	}

	if tree.Sections[1].NestedError == "" {
		t.Fatal("expected nested error for short chunk")
	}
	if tree.Sections[2].Nested != nil {
		t.Fatal("section without data has no nested tree")
	}

	warnings := tree.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != NestedContainerSkipped || warnings[0].Section != 1 {
		t.Fatalf("warnings: %v", warnings)
	}
}

func TestDecodeTreeJSON(t *testing.T) {
	t.Parallel()

	buf := container(testSection{
		guid1:   GUID{0x33, 0x22, 0x11, 0x00},
		types:   [4]byte{'N', 'N'},
		version: [4]uint16{1, 2},
		data:    []byte("d"),
	})
	tree, err := Decode(buf, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		Container struct {
			Header struct {
				Magic    string `json:"magic"`
				DataSize uint32 `json:"data_size"`
			} `json:"header"`
		} `json:"container"`
		Sections []struct {
			Index   int    `json:"index"`
			Version string `json:"version"`
			Header  struct {
				GUID1    string `json:"guid1"`
				DataSize uint32 `json:"data_size"`
			} `json:"header"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, raw)
	}
	if doc.Container.Header.Magic != HeaderMagic || doc.Container.Header.DataSize != SectionHeaderSize+1 {
		t.Fatalf("header: %+v", doc.Container.Header)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Version != "1.2." ||
		doc.Sections[0].Header.GUID1 != "00112233-0000-0000-0000-000000000000" ||
		doc.Sections[0].Header.DataSize != 1 {
		t.Fatalf("sections: %+v\n%s", doc.Sections, raw)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(container())
	f.Add(container(testSection{data: []byte("x")}))
	f.Add(container(testSection{data: subsection(Chunk{Ordinal: 3, Payload: []byte("p")})}))
	f.Fuzz(func(t *testing.T, buf []byte) {
		tree, err := Decode(buf, false, nil)
		if err == nil && tree == nil {
			t.Fatal("nil tree without error")
		}
		sink := newRecordingSink()
		_, _ = NewExtractor(sink, nil).Extract(buf)
	})
}
