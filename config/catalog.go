package config

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed configs/*.yaml
var builtinConfigs embed.FS

const catalogExt = ".yaml"

// Catalog holds named run configurations stored as <name>.yaml files at the
// root of a filesystem.
type Catalog struct {
	fsys fs.FS
}

// NewCatalog returns a catalog reading from fsys.
func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// Builtin returns the catalog of configurations shipped with the module.
func Builtin() *Catalog {
	sub, err := fs.Sub(builtinConfigs, "configs")
	if err != nil {
		panic(err)
	}
	return NewCatalog(sub)
}

// Names lists the configurations in the catalog, sorted.
func (c *Catalog) Names() ([]string, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != catalogExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), catalogExt))
	}
	sort.Strings(names)
	return names, nil
}

// Has reports whether name is present in the catalog.
func (c *Catalog) Has(name string) bool {
	_, err := fs.Stat(c.fsys, name+catalogExt)
	return err == nil
}

// Load reads the named configuration.
func (c *Catalog) Load(name string) (*Configuration, error) {
	data, err := fs.ReadFile(c.fsys, name+catalogExt)
	if err != nil {
		return nil, fmt.Errorf("configuration %q not found: %w", name, err)
	}

	var cfg Configuration
	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("configuration %q: %w", name, err)
	}
	return &cfg, nil
}
