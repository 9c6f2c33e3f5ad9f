package processors

import (
	"fmt"

	"mvdan.cc/gofumpt/format"
)

// Gofumpt formats Go files with gofumpt's stricter rules.
type Gofumpt struct {
	// LangVersion is the Go version the source targets, e.g. "go1.22".
	LangVersion string
	// ModulePath enables module-aware rules when set.
	ModulePath string
}

func NewGofumpt() *Gofumpt {
	return &Gofumpt{}
}

func (g *Gofumpt) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !isGoFile(filePath) {
		return content, nil
	}

	formatted, err := format.Source(content, format.Options{
		LangVersion: g.LangVersion,
		ModulePath:  g.ModulePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s with gofumpt: %w", filePath, err)
	}
	return formatted, nil
}
