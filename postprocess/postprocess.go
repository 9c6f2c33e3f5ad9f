// Package postprocess runs rendered file content through a chain of
// processors before it is written.
//
//	chain := postprocess.NewChain()
//	chain.AddFor("*.go", processors.NewGofumpt())
//	chain.Add(processors.NewTrim())
package postprocess

import (
	"fmt"
	"path"
)

// Processor transforms the content of one generated file.
// Implementations must be safe for concurrent use.
type Processor interface {
	// ProcessContent returns the transformed content. Processors return the
	// content unchanged for files they do not apply to.
	ProcessContent(filePath string, content []byte) ([]byte, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(filePath string, content []byte) ([]byte, error)

// ProcessContent implements the Processor interface.
func (f ProcessorFunc) ProcessContent(filePath string, content []byte) ([]byte, error) {
	return f(filePath, content)
}

type entry struct {
	pattern   string
	processor Processor
}

// Chain applies processors in the order they were added. A chain is built
// before a run and only read while files are processed.
type Chain struct {
	entries []entry
}

func NewChain() *Chain {
	return &Chain{}
}

// Add adds a processor that sees every file.
func (c *Chain) Add(processor Processor) {
	c.entries = append(c.entries, entry{processor: processor})
}

// AddFunc adds a function as a processor for every file.
func (c *Chain) AddFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	c.Add(ProcessorFunc(fn))
}

// AddFor adds a processor for files whose base name matches the glob
// pattern (path.Match syntax).
func (c *Chain) AddFor(pattern string, processor Processor) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	c.entries = append(c.entries, entry{pattern: pattern, processor: processor})
	return nil
}

// Process runs the matching processors in sequence. The first failure
// stops processing.
func (c *Chain) Process(filePath string, content []byte) ([]byte, error) {
	result := content
	for i, e := range c.entries {
		if e.pattern != "" {
			if ok, _ := path.Match(e.pattern, path.Base(filePath)); !ok {
				continue
			}
		}
		processed, err := e.processor.ProcessContent(filePath, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d failed for %s: %w", i, filePath, err)
		}
		result = processed
	}
	return result, nil
}

func (c *Chain) HasProcessors() bool {
	return len(c.entries) > 0
}

// Len returns the number of processors, scoped or not.
func (c *Chain) Len() int {
	return len(c.entries)
}
