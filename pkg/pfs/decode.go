package pfs

import (
	"fmt"

	"github.com/samcharles93/pfsextract/internal/logger"
)

// Tree is the decoded structure of a container and everything nested in it.
// Decoding a Tree never writes artifacts.
type Tree struct {
	Container *Container `json:"container"`
	Sections  []Node     `json:"sections"`

	// Set for subsection containers only.
	Chunks      []ChunkRef `json:"chunks,omitempty"`
	PayloadSize int        `json:"payload_size,omitempty"`
}

// Node is a decoded section plus the container nested in its data, if any.
type Node struct {
	Section
	Nested      *Tree  `json:"nested,omitempty"`
	NestedError string `json:"nested_error,omitempty"`
}

// ChunkRef describes one chunk of a subsection container without its bytes.
type ChunkRef struct {
	Section int    `json:"section"`
	Ordinal uint16 `json:"ordinal"`
	Size    int    `json:"size"`
}

// Decode parses buf into a Tree. Nested containers are decoded in subsection
// mode; a nested failure is recorded on its Node and does not fail the parent.
func Decode(buf []byte, subsection bool, log logger.Logger) (*Tree, error) {
	if log == nil {
		log = logger.Discard()
	}
	c, err := ParseContainer(buf, subsection, log)
	if err != nil {
		return nil, err
	}
	t := &Tree{Container: c}
	err = c.Walk(log, func(s *Section) error {
		n := Node{Section: *s}
		if subsection {
			if len(s.Data) > 0 {
				ch, err := ChunkFromData(s.Data)
				if err != nil {
					return fmt.Errorf("section %d: %w", s.Index, err)
				}
				t.Chunks = append(t.Chunks, ChunkRef{Section: s.Index, Ordinal: ch.Ordinal, Size: len(ch.Payload)})
				t.PayloadSize += len(ch.Payload)
			}
		} else if s.HasContainer() {
			nested, err := Decode(s.Data, true, log.With("section", s.Index))
			if err != nil {
				log.Warn("skipping nested container", "section", s.Index, "error", err)
				n.NestedError = err.Error()
			}
			n.Nested = nested
		}
		t.Sections = append(t.Sections, n)
		return nil
	})
	return t, err
}

// Warnings gathers every warning in the tree, depth first.
func (t *Tree) Warnings() []Warning {
	if t == nil {
		return nil
	}
	var out []Warning
	if t.Container != nil {
		out = append(out, t.Container.Warnings...)
	}
	for i := range t.Sections {
		n := &t.Sections[i]
		out = append(out, n.Section.Warnings...)
		if n.NestedError != "" {
			out = append(out, Warning{Kind: NestedContainerSkipped, Section: n.Index, Message: n.NestedError})
		}
		out = append(out, n.Nested.Warnings()...)
	}
	return out
}
