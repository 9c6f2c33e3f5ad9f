package postprocess

import (
	"bytes"
	"errors"
	"testing"
)

// tag prefixes content with its label so tests can read the order in which
// processors ran.
func tag(label string) Processor {
	return ProcessorFunc(func(_ string, content []byte) ([]byte, error) {
		return append([]byte(label+":"), content...), nil
	})
}

func TestChain_Empty(t *testing.T) {
	chain := NewChain()
	if chain.HasProcessors() || chain.Len() != 0 {
		t.Fatalf("new chain has %d processors", chain.Len())
	}

	in := []byte("package models\n")
	out, err := chain.Process("models/pet.go", in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Errorf("empty chain changed content: %q", out)
	}
}

func TestChain_Order(t *testing.T) {
	chain := NewChain()
	chain.Add(tag("first"))
	chain.AddFunc(func(_ string, content []byte) ([]byte, error) {
		return bytes.ToUpper(content), nil
	})
	chain.Add(tag("last"))

	out, err := chain.Process("apis/pets.md", []byte("pets"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got, want := string(out), "last:FIRST:PETS"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if chain.Len() != 3 {
		t.Errorf("Len = %d, want 3", chain.Len())
	}
}

func TestChain_PatternScope(t *testing.T) {
	chain := NewChain()
	if err := chain.AddFor("*.go", tag("go")); err != nil {
		t.Fatalf("AddFor: %v", err)
	}
	if err := chain.AddFor("README.*", tag("readme")); err != nil {
		t.Fatalf("AddFor: %v", err)
	}
	chain.Add(tag("all"))

	tests := []struct {
		path string
		want string
	}{
		{"models/pet.go", "all:go:x"},
		{"client.go", "all:go:x"},
		{"README.md", "all:readme:x"},
		{"docs/README.md", "all:readme:x"},
		{"models/pet.go.txt", "all:x"},
		{"CHANGELOG.md", "all:x"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := chain.Process(tt.path, []byte("x"))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestChain_AddForRejectsMalformedPattern(t *testing.T) {
	chain := NewChain()
	if err := chain.AddFor("[", tag("bad")); err == nil {
		t.Fatal("expected an error")
	}
	if chain.HasProcessors() {
		t.Error("malformed pattern was added")
	}
}

func TestChain_StopsAtFirstFailure(t *testing.T) {
	errFormat := errors.New("format failed")
	ran := false

	chain := NewChain()
	chain.AddFunc(func(string, []byte) ([]byte, error) {
		return nil, errFormat
	})
	chain.AddFunc(func(_ string, content []byte) ([]byte, error) {
		ran = true
		return content, nil
	})

	_, err := chain.Process("models/pet.go", []byte("package models"))
	if !errors.Is(err, errFormat) {
		t.Fatalf("err = %v, want %v", err, errFormat)
	}
	if ran {
		t.Error("processor after the failing one ran")
	}
}
