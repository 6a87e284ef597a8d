// Package fsxtest provides an in-memory fsx.FileSystem with failure injection for tests.
package fsxtest

import (
	"bytes"
	"errors"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"io"
	"io/fs"
	"path"
	"time"
)

type node struct {
	isDir    bool
	content  []byte
	children []string
}

// MemFS is an in-memory tree using slash separated paths. Children are listed in
// insertion order.
type MemFS struct {
	nodes map[string]*node

	// ListFilesErr, ListDirsErr, StatErr and OpenErr inject failures per path.
	ListFilesErr map[string]error
	ListDirsErr  map[string]error
	StatErr      map[string]error
	OpenErr      map[string]error

	// Size is reported by Capacity; zero makes Capacity fail.
	Size int64
	// Time is reported for every timestamp of every node.
	Time time.Time

	// Opens counts successful Open calls.
	Opens int
}

var _ fsx.FileSystem = (*MemFS)(nil)

// New returns a MemFS holding an empty root directory.
func New(root string) *MemFS {
	m := &MemFS{
		nodes:        map[string]*node{},
		ListFilesErr: map[string]error{},
		ListDirsErr:  map[string]error{},
		StatErr:      map[string]error{},
		OpenErr:      map[string]error{},
		Size:         1 << 30,
		Time:         time.Date(2020, 5, 17, 10, 30, 0, 0, time.UTC),
	}
	m.nodes[root] = &node{isDir: true}
	return m
}

// AddDir adds a directory and any missing parents.
func (m *MemFS) AddDir(p string) *MemFS {
	m.add(p, &node{isDir: true})
	return m
}

// AddFile adds a file with the given content and any missing parents.
func (m *MemFS) AddFile(p string, content string) *MemFS {
	m.add(p, &node{content: []byte(content)})
	return m
}

// SetContent replaces the content of an existing file.
func (m *MemFS) SetContent(p string, content string) {
	m.nodes[p].content = []byte(content)
}

func (m *MemFS) add(p string, n *node) {
	if existing, ok := m.nodes[p]; ok {
		if !existing.isDir {
			existing.content = n.content
		}
		return
	}

	parent := path.Dir(p)
	if _, ok := m.nodes[parent]; !ok && parent != p {
		m.add(parent, &node{isDir: true})
	}
	m.nodes[p] = n
	if parentNode, ok := m.nodes[parent]; ok && parent != p {
		parentNode.children = append(parentNode.children, p)
	}
}

func (m *MemFS) list(dir string, dirs bool, injected map[string]error) ([]string, error) {
	if err := injected[dir]; err != nil {
		return nil, err
	}
	n, ok := m.nodes[dir]
	if !ok || !n.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}

	var out []string
	for _, c := range n.children {
		if m.nodes[c].isDir == dirs {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemFS) ListFiles(dir string) ([]string, error) {
	return m.list(dir, false, m.ListFilesErr)
}

func (m *MemFS) ListDirs(dir string) ([]string, error) {
	return m.list(dir, true, m.ListDirsErr)
}

func (m *MemFS) Stat(p string) (fsx.FileMeta, error) {
	if err := m.StatErr[p]; err != nil {
		return fsx.FileMeta{}, err
	}
	n, ok := m.nodes[p]
	if !ok {
		return fsx.FileMeta{}, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}

	meta := fsx.FileMeta{IsDir: n.isDir, Created: m.Time, Modified: m.Time, Accessed: m.Time}
	if !n.isDir {
		meta.Length = int64(len(n.content))
	}
	return meta, nil
}

func (m *MemFS) Open(p string) (io.ReadCloser, error) {
	if err := m.OpenErr[p]; err != nil {
		return nil, err
	}
	n, ok := m.nodes[p]
	if !ok || n.isDir {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	m.Opens++
	return io.NopCloser(bytes.NewReader(n.content)), nil
}

func (m *MemFS) Capacity(string) (int64, error) {
	if m.Size == 0 {
		return 0, errors.New("capacity unavailable")
	}
	return m.Size, nil
}
