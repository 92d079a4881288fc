package pfs

import (
	"errors"
	"fmt"

	"github.com/samcharles93/pfsextract/internal/logger"
)

// Sink receives extracted artifacts. Each call is self-contained.
type Sink interface {
	Write(name string, data []byte) error
}

// Result summarises one extraction.
type Result struct {
	Artifacts int
	Warnings  []Warning
}

// Extractor writes the contents of PFS images to a Sink. It holds no state
// between calls and may be reused.
type Extractor struct {
	sink Sink
	log  logger.Logger
}

func NewExtractor(sink Sink, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{sink: sink, log: log}
}

// Extract parses buf as a top-level container and emits every non-empty
// section payload. Section data that is itself a container is additionally
// reassembled from its chunks into a "payload" artifact. A corrupt nested
// container is skipped with a warning. Artifacts written before a fatal error
// are left in place.
func (e *Extractor) Extract(buf []byte) (Result, error) {
	if e.sink == nil {
		return Result{}, fmt.Errorf("%w: nil sink", ErrSink)
	}
	r := &run{sink: e.sink}
	err := r.container(buf, e.log)
	return r.res, err
}

// run carries the state of a single Extract call.
type run struct {
	sink Sink
	res  Result
}

func (r *run) emit(name string, data []byte) error {
	if err := r.sink.Write(name, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSink, name, err)
	}
	r.res.Artifacts++
	return nil
}

func (r *run) container(buf []byte, log logger.Logger) error {
	c, err := ParseContainer(buf, false, log)
	if err != nil {
		return err
	}
	r.res.Warnings = append(r.res.Warnings, c.Warnings...)

	return c.Walk(log, func(s *Section) error {
		r.res.Warnings = append(r.res.Warnings, s.Warnings...)
		if len(s.Data) > 0 {
			if err := r.emit(s.ArtifactName(KindData), s.Data); err != nil {
				return err
			}
			if s.HasContainer() {
				target := s.ArtifactName(KindPayload)
				if err := r.subsection(s.Data, target, log.With("section", s.Index)); err != nil {
					if errors.Is(err, ErrSink) {
						return err
					}
					log.Warn("skipping nested container", "section", s.Index, "target", target, "error", err)
					r.res.Warnings = append(r.res.Warnings, Warning{
						Kind:    NestedContainerSkipped,
						Section: s.Index,
						Message: err.Error(),
					})
				}
			}
		}
		for _, p := range []struct {
			kind string
			data []byte
		}{
			{KindDataSignature, s.DataSignature},
			{KindMetadata, s.Metadata},
			{KindMetadataSignature, s.MetadataSignature},
		} {
			if len(p.data) == 0 {
				continue
			}
			if err := r.emit(s.ArtifactName(p.kind), p.data); err != nil {
				return err
			}
		}
		return nil
	})
}

// subsection reassembles the chunks of a nested container and writes them as a
// single artifact named target. Signature and metadata payloads are ignored.
func (r *run) subsection(buf []byte, target string, log logger.Logger) error {
	c, err := ParseContainer(buf, true, log)
	if err != nil {
		return err
	}
	r.res.Warnings = append(r.res.Warnings, c.Warnings...)

	var chunks []Chunk
	err = c.Walk(log, func(s *Section) error {
		r.res.Warnings = append(r.res.Warnings, s.Warnings...)
		if len(s.Data) == 0 {
			return nil
		}
		ch, err := ChunkFromData(s.Data)
		if err != nil {
			return fmt.Errorf("section %d: %w", s.Index, err)
		}
		chunks = append(chunks, ch)
		return nil
	})
	if err != nil {
		return err
	}
	log.Debug("reassembling subsection", "target", target, "chunks", len(chunks))
	return r.emit(target, Reassemble(chunks))
}
