// Package sink provides destinations for extracted PFS artifacts.
package sink

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	ErrInvalidName = errors.New("sink: invalid artifact name")
	ErrDuplicate   = errors.New("sink: duplicate artifact name")
)

// ValidName rejects names that are not a single path element.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Dir writes each artifact as a file directly under an output directory.
type Dir struct {
	root *os.Root
	path string
	perm os.FileMode
}

// CreateDir creates path (it must not already exist unless force is set) and
// opens it as the write root.
func CreateDir(path string, force bool) (*Dir, error) {
	var err error
	if force {
		err = os.MkdirAll(path, 0o755)
	} else {
		err = os.Mkdir(path, 0o755)
	}
	if err != nil {
		return nil, &DirError{Op: "create", Path: path, Err: err}
	}
	return OpenDir(path)
}

// OpenDir opens an existing directory as the write root.
func OpenDir(path string) (*Dir, error) {
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, &DirError{Op: "open", Path: path, Err: err}
	}
	return &Dir{root: root, path: path, perm: 0o644}, nil
}

// DirError reports a failure to prepare the output directory.
type DirError struct {
	Op   string
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("sink: %s output directory %s: %v", e.Op, e.Path, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }

// Path returns the output directory.
func (d *Dir) Path() string { return d.path }

// Write creates or truncates the named file.
func (d *Dir) Write(name string, data []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	return d.root.WriteFile(name, data, d.perm)
}

func (d *Dir) Close() error {
	if d == nil || d.root == nil {
		return nil
	}
	err := d.root.Close()
	d.root = nil
	return err
}

// Artifact is a named payload held in memory.
type Artifact struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Memory keeps artifacts in write order. It is safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	artifacts []Artifact
	index     map[string]int
}

func NewMemory() *Memory {
	return &Memory{index: make(map[string]int)}
}

// Write stores a copy of data. Writing the same name twice is an error.
func (m *Memory) Write(name string, data []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	m.index[name] = len(m.artifacts)
	m.artifacts = append(m.artifacts, Artifact{Name: name, Data: append([]byte{}, data...)})
	return nil
}

// Artifacts returns the stored artifacts in write order.
func (m *Memory) Artifacts() []Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Artifact(nil), m.artifacts...)
}
