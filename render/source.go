package render

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// SourceError reports a template or partial source that could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("template source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Source resolves template paths against either an override location or the
// built-in template tree, and caches what it reads.
//
// With an override, a path is looked up relative to the override root and the
// run name is ignored. Without one, the run name is the first directory below
// the built-in root.
type Source struct {
	builtin  fs.FS
	override fs.FS

	mu    sync.RWMutex
	cache map[string]string
}

func NewSource(builtin, override fs.FS) *Source {
	return &Source{
		builtin:  builtin,
		override: override,
		cache:    make(map[string]string),
	}
}

// HasOverride reports whether templates come from an override location.
func (s *Source) HasOverride() bool {
	return s.override != nil
}

// Resolve returns the filesystem and slash-separated path a template lives at.
func (s *Source) Resolve(runName, rel string) (fs.FS, string) {
	rel = cleanRel(rel)
	if s.override != nil {
		return s.override, rel
	}
	return s.builtin, path.Join(cleanRel(runName), rel)
}

// Read returns the text of the template at rel for the given run.
func (s *Source) Read(runName, rel string) (string, error) {
	fsys, p := s.Resolve(runName, rel)
	if fsys == nil {
		return "", &SourceError{Path: p, Err: fs.ErrNotExist}
	}

	s.mu.RLock()
	content, ok := s.cache[p]
	s.mu.RUnlock()
	if ok {
		return content, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if content, ok := s.cache[p]; ok {
		return content, nil
	}

	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return "", &SourceError{Path: p, Err: err}
	}

	s.cache[p] = string(data)
	return s.cache[p], nil
}

func cleanRel(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}
