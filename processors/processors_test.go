package processors

import (
	"strings"
	"testing"
)

const unformatted = `package main

import (
	"fmt"
	"context"
)

func main() {


	ctx := context.Background()
	_ = ctx
}
`

func TestGoImports_ProcessContent(t *testing.T) {
	processor := NewGoImports()

	tests := []struct {
		name     string
		filePath string
		input    string
		check    func(t *testing.T, out string)
	}{
		{
			name:     "removes unused imports",
			filePath: "main.go",
			input:    unformatted,
			check: func(t *testing.T, out string) {
				if strings.Contains(out, `"fmt"`) {
					t.Errorf("unused import kept:\n%s", out)
				}
				if !strings.Contains(out, `"context"`) {
					t.Errorf("used import dropped:\n%s", out)
				}
			},
		},
		{
			name:     "non-go file unchanged",
			filePath: "README.md",
			input:    "some   text",
			check: func(t *testing.T, out string) {
				if out != "some   text" {
					t.Errorf("content changed: %q", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := processor.ProcessContent(tt.filePath, []byte(tt.input))
			if err != nil {
				t.Fatalf("ProcessContent() error = %v", err)
			}
			tt.check(t, string(out))
		})
	}
}

func TestGoImports_InvalidSource(t *testing.T) {
	_, err := NewGoImports().ProcessContent("broken.go", []byte("package main\nfunc {"))
	if err == nil {
		t.Error("expected error for invalid Go source")
	}
}

func TestGofumpt_ProcessContent(t *testing.T) {
	out, err := NewGofumpt().ProcessContent("main.go", []byte(unformatted))
	if err != nil {
		t.Fatalf("ProcessContent() error = %v", err)
	}
	if strings.Contains(string(out), "{\n\n") {
		t.Errorf("gofumpt should drop empty lines at the start of a block:\n%s", out)
	}

	same, err := NewGofumpt().ProcessContent("notes.txt", []byte("x  "))
	if err != nil || string(same) != "x  " {
		t.Errorf("non-go file changed: %q, %v", same, err)
	}
}

func TestTrim_ProcessContent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a  \r\nb\t\n\n\n", "a\nb\n"},
		{"line", "line\n"},
		{"", ""},
		{"  \n", "  \n"},
	}

	for _, tt := range tests {
		out, err := NewTrim().ProcessContent("x.md", []byte(tt.in))
		if err != nil {
			t.Fatalf("ProcessContent(%q) error = %v", tt.in, err)
		}
		if string(out) != tt.want {
			t.Errorf("ProcessContent(%q) = %q, want %q", tt.in, out, tt.want)
		}
	}
}

func TestChain(t *testing.T) {
	chain, err := Chain([]string{"gofumpt", "trim"})
	if err != nil {
		t.Fatalf("Chain() error = %v", err)
	}
	if chain.Len() != 2 {
		t.Errorf("Len() = %d, want 2", chain.Len())
	}

	out, err := chain.Process("doc.md", []byte("title   \n"))
	if err != nil || string(out) != "title\n" {
		t.Errorf("Process() = %q, %v", out, err)
	}

	if _, err := Chain([]string{"prettier"}); err == nil {
		t.Error("expected error for unknown formatter")
	}
}

func TestIsGoFile(t *testing.T) {
	tests := []struct {
		filePath string
		want     bool
	}{
		{"main.go", true},
		{"file.GO", true},
		{"file.txt", false},
		{"go.mod", false},
		{"file", false},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			if got := isGoFile(tt.filePath); got != tt.want {
				t.Errorf("isGoFile() = %v, want %v", got, tt.want)
			}
		})
	}
}
