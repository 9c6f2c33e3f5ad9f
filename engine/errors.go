package engine

import (
	"errors"
	"fmt"

	"github.com/cpcf/shuttle/render"
)

// Kind classifies a failed run. Every kind is fatal.
type Kind int

const (
	// KindTransform: the model transform rejected the input. Nothing was
	// written.
	KindTransform Kind = iota + 1
	// KindTemplateSource: a template or partial could not be read.
	KindTemplateSource
	// KindDirectory: preparing the output directory or writing a file failed.
	KindDirectory
	// KindRender: a template failed to parse or execute.
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindTemplateSource:
		return "template source"
	case KindDirectory:
		return "directory"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a GenerationError of the same kind.
var (
	ErrTransform      = errors.New("transform error")
	ErrTemplateSource = errors.New("template source error")
	ErrDirectory      = errors.New("directory error")
	ErrRender         = errors.New("render error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTransform:
		return ErrTransform
	case KindTemplateSource:
		return ErrTemplateSource
	case KindDirectory:
		return ErrDirectory
	case KindRender:
		return ErrRender
	default:
		return nil
	}
}

type GenerationError struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	prefix := e.Kind.String() + " error"
	if e.Path != "" {
		prefix += " in " + e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func newError(kind Kind, path, message string, err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	var srcErr *render.SourceError
	if errors.As(err, &srcErr) {
		kind = KindTemplateSource
		if path == "" {
			path = srcErr.Path
		}
	}
	return &GenerationError{Kind: kind, Path: path, Message: message, Err: err}
}
