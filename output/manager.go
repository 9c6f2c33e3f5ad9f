// Package output manages the lifecycle of a run's output subdirectory.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/cpcf/shuttle/templates"
)

// LicenseFile is written into every run subdirectory.
const LicenseFile = "LICENSE"

// Manager prepares run subdirectories below an output root.
type Manager struct {
	fs       billy.Filesystem
	licenses fs.FS
	logger   *slog.Logger
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLicenses replaces the source of the license texts. The files are
// looked up at templates.ApacheLicense and templates.UnlicenseLicense.
func WithLicenses(licenses fs.FS) Option {
	return func(m *Manager) {
		m.licenses = licenses
	}
}

// NewManager returns a Manager whose output root is the root of fsys.
func NewManager(fsys billy.Filesystem, opts ...Option) *Manager {
	m := &Manager{
		fs:       fsys,
		licenses: templates.FS,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prepare creates subdir, deletes everything inside it, creates dirs
// below it and writes the LICENSE file. It returns the filesystem rooted
// at subdir; an empty subdir means the output root itself.
func (m *Manager) Prepare(subdir string, dirs []string, apache bool) (billy.Filesystem, error) {
	target := path.Clean("/" + subdir)[1:]
	if target == "" {
		target = "."
	}

	if err := m.fs.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", target, err)
	}

	if err := m.clean(target); err != nil {
		return nil, err
	}

	runFS := m.fs
	if target != "." {
		chrooted, err := m.fs.Chroot(target)
		if err != nil {
			return nil, fmt.Errorf("failed to open output directory %s: %w", target, err)
		}
		runFS = chrooted
	}

	for _, dir := range dirs {
		if err := runFS.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := m.writeLicense(runFS, apache); err != nil {
		return nil, err
	}

	m.logger.Debug("prepared output directory", "dir", target, "directories", len(dirs), "apache", apache)
	return runFS, nil
}

func (m *Manager) clean(dir string) error {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list output directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		p := m.fs.Join(dir, entry.Name())
		if err := util.RemoveAll(m.fs, p); err != nil {
			return fmt.Errorf("failed to clean %s: %w", p, err)
		}
	}

	m.logger.Debug("cleaned output directory", "dir", dir, "removed", len(entries))
	return nil
}

func (m *Manager) writeLicense(runFS billy.Filesystem, apache bool) error {
	name := templates.UnlicenseLicense
	if apache {
		name = templates.ApacheLicense
	}

	text, err := fs.ReadFile(m.licenses, name)
	if err != nil {
		return fmt.Errorf("failed to read license template %s: %w", name, err)
	}

	if err := util.WriteFile(runFS, LicenseFile, text, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", LicenseFile, err)
	}
	return nil
}

// License returns the license text Prepare writes for the given flag.
func License(apache bool) ([]byte, error) {
	if apache {
		return fs.ReadFile(templates.FS, templates.ApacheLicense)
	}
	return fs.ReadFile(templates.FS, templates.UnlicenseLicense)
}
