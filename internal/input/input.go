// Package input loads firmware images into memory for parsing.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var (
	ErrOpen      = errors.New("input: cannot open file")
	ErrTooLarge  = errors.New("input: file cannot be held in memory")
	ErrShortRead = errors.New("input: short read")
)

// Image is the read-only content of an input file.
type Image struct {
	Path    string
	Data    []byte
	mmapped bool
}

// Load maps path read-only. If mmap is unavailable it falls back to reading the
// whole file. The returned Image must be closed to release any mapping.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrOpen, path)
	}
	size64 := st.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size64)
	}
	size := int(size64)
	if size == 0 {
		return &Image{Path: path, Data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &Image{Path: path, Data: data, mmapped: true}, nil
	}

	data, err = ReadAll(f, size)
	if err != nil {
		return nil, err
	}
	return &Image{Path: path, Data: data}, nil
}

// ReadAll reads exactly size bytes from r.
func ReadAll(r io.ReaderAt, size int) (out []byte, err error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrTooLarge, size)
	}
	defer func() {
		// make panics when the length cannot be allocated.
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrTooLarge, p)
		}
	}()
	out = make([]byte, size)
	var off int64
	for off < int64(size) {
		n, rerr := r.ReadAt(out[off:], off)
		off += int64(n)
		if rerr == nil {
			continue
		}
		if rerr == io.EOF && off == int64(size) {
			break
		}
		if rerr == io.EOF {
			return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, off, size)
		}
		return nil, fmt.Errorf("%w: %w", ErrShortRead, rerr)
	}
	return out, nil
}

// Close releases the mapping, if any.
func (im *Image) Close() error {
	if im == nil || im.Data == nil {
		return nil
	}
	var err error
	if im.mmapped {
		err = unix.Munmap(im.Data)
	}
	im.Data = nil
	im.mmapped = false
	return err
}
