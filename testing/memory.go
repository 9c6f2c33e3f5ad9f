// Package testing provides fixtures for exercising generation runs without
// touching the disk: an in-memory template filesystem and helpers that read
// a generated tree back.
package testing

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS is an fs.FS holding template sources in memory. It stands in for a
// template directory override or for the built-in template tree.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
}

type memoryFile struct {
	name    string
	content []byte
	modTime time.Time
	isDir   bool
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{files: make(map[string]*memoryFile)}
}

// TemplateFS builds a MemoryFS from a path to content map.
func TemplateFS(files map[string]string) *MemoryFS {
	mfs := NewMemoryFS()
	for name, content := range files {
		mfs.WriteFile(name, []byte(content))
	}
	return mfs
}

func (mfs *MemoryFS) WriteFile(name string, data []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = path.Clean(strings.TrimPrefix(name, "/"))
	mfs.files[name] = &memoryFile{name: name, content: data, modTime: time.Now()}
	mfs.ensureDir(path.Dir(name))
}

func (mfs *MemoryFS) ensureDir(dir string) {
	if dir == "." || dir == "/" {
		return
	}
	if _, exists := mfs.files[dir]; exists {
		return
	}
	mfs.files[dir] = &memoryFile{name: dir, modTime: time.Now(), isDir: true}
	mfs.ensureDir(path.Dir(dir))
}

func (mfs *MemoryFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	if name == "." {
		return &memoryHandle{file: &memoryFile{name: ".", isDir: true}, mfs: mfs}, nil
	}
	file, exists := mfs.files[name]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryHandle{file: file, mfs: mfs}, nil
}

func (mfs *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	var entries []fs.DirEntry
	for filePath, file := range mfs.files {
		if path.Dir(filePath) == name {
			entries = append(entries, fs.FileInfoToDirEntry(file))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

type memoryHandle struct {
	file   *memoryFile
	mfs    *MemoryFS
	offset int
}

func (h *memoryHandle) Read(b []byte) (int, error) {
	if h.file.isDir {
		return 0, &fs.PathError{Op: "read", Path: h.file.name, Err: fs.ErrInvalid}
	}
	if h.offset >= len(h.file.content) {
		return 0, io.EOF
	}
	n := copy(b, h.file.content[h.offset:])
	h.offset += n
	return n, nil
}

func (h *memoryHandle) Stat() (fs.FileInfo, error) { return h.file, nil }

func (h *memoryHandle) Close() error { return nil }

func (h *memoryHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	if !h.file.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: h.file.name, Err: fs.ErrInvalid}
	}
	entries, err := h.mfs.ReadDir(h.file.name)
	if err != nil {
		return nil, err
	}
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

func (f *memoryFile) Name() string       { return path.Base(f.name) }
func (f *memoryFile) Size() int64        { return int64(len(f.content)) }
func (f *memoryFile) ModTime() time.Time { return f.modTime }
func (f *memoryFile) IsDir() bool        { return f.isDir }
func (f *memoryFile) Sys() any           { return nil }

func (f *memoryFile) Mode() fs.FileMode {
	if f.isDir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
