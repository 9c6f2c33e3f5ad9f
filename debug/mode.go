// Package debug builds the run logger and times run stages.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

type DebugLevel int

const (
	LevelOff DebugLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

func (dl DebugLevel) String() string {
	switch dl {
	case LevelOff:
		return "OFF"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

func isValidDebugLevel(level DebugLevel) bool {
	return level >= LevelOff && level <= LevelDebug
}

// DebugMode owns a slog logger whose level can change at runtime.
type DebugMode struct {
	mu      sync.RWMutex
	level   DebugLevel
	output  io.Writer
	json    bool
	leveler *slog.LevelVar
	logger  *slog.Logger
}

type DebugOption func(*DebugMode)

func WithLevel(level DebugLevel) DebugOption {
	return func(dm *DebugMode) {
		if isValidDebugLevel(level) {
			dm.level = level
		} else {
			dm.level = LevelInfo
		}
	}
}

func WithOutput(output io.Writer) DebugOption {
	return func(dm *DebugMode) {
		dm.output = output
	}
}

// WithJSON switches the handler from text to JSON records.
func WithJSON(enable bool) DebugOption {
	return func(dm *DebugMode) {
		dm.json = enable
	}
}

func NewDebugMode(opts ...DebugOption) *DebugMode {
	dm := &DebugMode{
		level:   LevelInfo,
		output:  os.Stderr,
		leveler: new(slog.LevelVar),
	}

	for _, opt := range opts {
		opt(dm)
	}

	dm.leveler.Set(toSlogLevel(dm.level))
	handlerOpts := &slog.HandlerOptions{Level: dm.leveler}
	if dm.json {
		dm.logger = slog.New(slog.NewJSONHandler(dm.output, handlerOpts))
	} else {
		dm.logger = slog.New(slog.NewTextHandler(dm.output, handlerOpts))
	}
	return dm
}

// ForVerbose returns a DebugMode at LevelDebug when verbose is set and at
// LevelInfo otherwise.
func ForVerbose(verbose bool, output io.Writer) *DebugMode {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}
	return NewDebugMode(WithLevel(level), WithOutput(output))
}

func (dm *DebugMode) Logger() *slog.Logger {
	return dm.logger
}

func (dm *DebugMode) Level() DebugLevel {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.level
}

func (dm *DebugMode) IsEnabled(level DebugLevel) bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.level != LevelOff && dm.level >= level
}

func (dm *DebugMode) SetLevel(level DebugLevel) error {
	if !isValidDebugLevel(level) {
		return fmt.Errorf("invalid debug level: %d (must be between %d and %d)",
			level, LevelOff, LevelDebug)
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.level = level
	dm.leveler.Set(toSlogLevel(level))
	return nil
}

func toSlogLevel(level DebugLevel) slog.Level {
	switch level {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	default:
		// off: above every level the engine logs at
		return slog.LevelError + 4
	}
}

// Operation times one stage of a run.
type Operation struct {
	logger    *slog.Logger
	name      string
	startTime time.Time
	attrs     []any
}

// Start begins timing the named operation. attrs are added to every record
// it logs.
func Start(logger *slog.Logger, name string, attrs ...any) *Operation {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("operation started", append([]any{"operation", name}, attrs...)...)
	return &Operation{logger: logger, name: name, startTime: time.Now(), attrs: attrs}
}

// Complete logs the operation's duration at info level.
func (op *Operation) Complete(args ...any) {
	all := append([]any{"operation", op.name, "duration", time.Since(op.startTime)}, op.attrs...)
	op.logger.Info("operation completed", append(all, args...)...)
}

// Fail logs err with the operation's duration.
func (op *Operation) Fail(err error) {
	all := append([]any{"operation", op.name, "duration", time.Since(op.startTime)}, op.attrs...)
	op.logger.Error("operation failed", append(all, "error", err)...)
}
