package write

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// OutputFile is a rendered file, its path relative to the run's output
// subdirectory.
type OutputFile struct {
	Path    string
	Content []byte
}

// Emitter writes OutputFiles below the run's output subdirectory, creating
// parent directories as needed. Existing files are replaced.
type Emitter struct {
	writer  Writer
	touches *SkipIfExistsWriter
}

// NewEmitter returns an Emitter rooted at fs. Callers chroot fs to the run
// subdirectory.
func NewEmitter(fs billy.Filesystem) *Emitter {
	base := NewBaseWriter(fs)
	return &Emitter{
		writer:  base,
		touches: NewSkipIfExistsWriter(fs, base),
	}
}

func (e *Emitter) Emit(file OutputFile) error {
	p, err := cleanPath(file.Path)
	if err != nil {
		return err
	}
	if !e.writer.CanWrite(p) {
		return fmt.Errorf("cannot write %s: path is a directory", p)
	}
	if err := e.writer.Write(p, file.Content, WriteOptions{CreateDirs: true, Overwrite: true, Atomic: true}); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}

// Touch creates an empty file at name unless something already exists
// there. It reports whether a file was created.
func (e *Emitter) Touch(name string) (bool, error) {
	p, err := cleanPath(name)
	if err != nil {
		return false, err
	}
	if !e.touches.CanWrite(p) {
		return false, nil
	}
	if err := e.touches.Write(p, nil, WriteOptions{CreateDirs: true}); err != nil {
		return false, fmt.Errorf("failed to touch %s: %w", p, err)
	}
	return true, nil
}

func cleanPath(p string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." || cleaned == "" {
		return "", fmt.Errorf("empty output path %q", p)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("output path %q escapes the output directory", p)
	}
	return cleaned, nil
}
