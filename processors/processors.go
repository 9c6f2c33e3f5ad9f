// Package processors provides the built-in post-processors that the
// formatters configuration list selects by name.
package processors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cpcf/shuttle/config"
	"github.com/cpcf/shuttle/postprocess"
)

// New returns the processor registered under a formatter name together with
// the file pattern it applies to.
func New(name string) (string, postprocess.Processor, error) {
	switch name {
	case config.FormatterGoImports:
		return "*.go", NewGoImports(), nil
	case config.FormatterGofumpt:
		return "*.go", NewGofumpt(), nil
	case config.FormatterTrim:
		return "", NewTrim(), nil
	default:
		return "", nil, fmt.Errorf("unknown formatter %q", name)
	}
}

// Chain builds a chain from formatter names, in order.
func Chain(names []string) (*postprocess.Chain, error) {
	chain := postprocess.NewChain()
	for _, name := range names {
		pattern, p, err := New(name)
		if err != nil {
			return nil, err
		}
		if pattern == "" {
			chain.Add(p)
			continue
		}
		if err := chain.AddFor(pattern, p); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// Trim strips trailing whitespace from every line and leaves exactly one
// trailing newline on non-empty content.
type Trim struct{}

func NewTrim() *Trim {
	return &Trim{}
}

func (t *Trim) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return content, nil
	}

	lines := bytes.Split(content, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " \t\r")
	}
	out := bytes.TrimRight(bytes.Join(lines, []byte("\n")), "\n")
	return append(out, '\n'), nil
}

func isGoFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".go"
}
