// Package write emits generated files onto a billy filesystem.
package write

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Writer writes file content to a path of its filesystem.
type Writer interface {
	Write(path string, content []byte, options WriteOptions) error
	CanWrite(path string) bool
}

type WriteOptions struct {
	CreateDirs bool
	Overwrite  bool
	Atomic     bool
}

// BaseWriter writes straight to a billy filesystem.
type BaseWriter struct {
	fs billy.Filesystem
}

func NewBaseWriter(fs billy.Filesystem) *BaseWriter {
	return &BaseWriter{fs: fs}
}

func (bw *BaseWriter) Write(p string, content []byte, options WriteOptions) error {
	if options.CreateDirs {
		if dir := path.Dir(p); dir != "." && dir != "/" {
			if err := bw.fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
		}
	}

	if !options.Overwrite {
		if _, err := bw.fs.Stat(p); err == nil {
			return fmt.Errorf("file already exists and overwrite is false: %s", p)
		}
	}

	if options.Atomic {
		return bw.atomicWrite(p, content)
	}
	return util.WriteFile(bw.fs, p, content, 0o644)
}

func (bw *BaseWriter) CanWrite(p string) bool {
	info, err := bw.fs.Stat(p)
	if err != nil {
		return errors.Is(err, os.ErrNotExist)
	}
	return !info.IsDir()
}

func (bw *BaseWriter) atomicWrite(p string, content []byte) error {
	file, err := util.TempFile(bw.fs, path.Dir(p), ".shuttle-")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	if _, err := file.Write(content); err != nil {
		file.Close()
		bw.fs.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		bw.fs.Remove(tempPath)
		return err
	}

	return bw.fs.Rename(tempPath, p)
}

// SkipIfExistsWriter writes a file only when nothing exists at the path yet.
type SkipIfExistsWriter struct {
	fs         billy.Filesystem
	baseWriter Writer
}

func NewSkipIfExistsWriter(fs billy.Filesystem, baseWriter Writer) *SkipIfExistsWriter {
	if baseWriter == nil {
		baseWriter = NewBaseWriter(fs)
	}
	return &SkipIfExistsWriter{fs: fs, baseWriter: baseWriter}
}

func (siw *SkipIfExistsWriter) Write(p string, content []byte, options WriteOptions) error {
	if _, err := siw.fs.Stat(p); err == nil {
		return nil
	}
	return siw.baseWriter.Write(p, content, options)
}

func (siw *SkipIfExistsWriter) CanWrite(p string) bool {
	if _, err := siw.fs.Stat(p); err == nil {
		return false
	}
	return siw.baseWriter.CanWrite(p)
}
