package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cpcf/shuttle/render"
)

// DefaultOutputDir is used when a configuration leaves outputDir empty.
const DefaultOutputDir = "./out/"

// Template syntaxes understood by the engine.
const (
	SyntaxText   = "text"
	SyntaxDjango = "django"
)

// Formatter names accepted in the formatters list.
const (
	FormatterGoImports = "goimports"
	FormatterGofumpt   = "gofumpt"
	FormatterTrim      = "trim"
)

var knownFormatters = []string{FormatterGoImports, FormatterGofumpt, FormatterTrim}

// Configuration is the declarative descriptor of a single run. It is treated
// as immutable input once a run starts.
type Configuration struct {
	OutputDir       string            `yaml:"outputDir"`
	TemplateDir     string            `yaml:"templateDir"`
	Defaults        map[string]any    `yaml:"defaults"`
	Generator       *Generator        `yaml:"generator"`
	Partials        map[string]string `yaml:"partials"`
	Directories     []string          `yaml:"directories"`
	Transformations []Transformation  `yaml:"transformations"`
	Touch           string            `yaml:"touch"`
	Apache          bool              `yaml:"apache"`
	PerAPI          []FanOutSpec      `yaml:"perApi"`
	PerPath         []FanOutSpec      `yaml:"perPath"`
	PerModel        []FanOutSpec      `yaml:"perModel"`
	PerOperation    []FanOutSpec      `yaml:"perOperation"`
	Syntax          string            `yaml:"syntax"`
	Formatters      []string          `yaml:"formatters"`
}

// Generator bundles a name, the helper functions it contributes and its own
// default overrides.
type Generator struct {
	Name     string         `yaml:"name"`
	Defaults map[string]any `yaml:"defaults"`
	// Lambdas names entries of the built-in helper library to enable.
	Lambdas []string `yaml:"lambdas"`
	// Funcs holds helpers supplied from Go code.
	Funcs map[string]any `yaml:"-"`
}

// Helpers returns the Go-supplied helper functions of the generator.
func (g *Generator) Helpers() map[string]any {
	if g == nil {
		return nil
	}
	return g.Funcs
}

// FanOutSpec defines one pass over one named model collection.
type FanOutSpec struct {
	Input    string         `yaml:"input"`
	Output   string         `yaml:"output"`
	Defaults map[string]any `yaml:"defaults"`
}

// Transformation renders a single whole-output file against the full model.
type Transformation struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Validate implements the Validator interface.
func (c *Configuration) Validate() error {
	var errs []error

	for i, tx := range c.Transformations {
		if tx.Input != "" && strings.TrimSpace(tx.Output) == "" {
			errs = append(errs, fmt.Errorf("transformations[%d]: output template is required", i))
		}
	}

	passes := []struct {
		name  string
		specs []FanOutSpec
	}{
		{"perApi", c.PerAPI},
		{"perPath", c.PerPath},
		{"perModel", c.PerModel},
		{"perOperation", c.PerOperation},
	}
	for _, pass := range passes {
		for i, spec := range pass.specs {
			if spec.Input == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: input template is required", pass.name, i))
			}
			if strings.TrimSpace(spec.Output) == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: output template is required", pass.name, i))
			}
		}
	}

	switch c.Syntax {
	case "", SyntaxText:
	case SyntaxDjango:
		errs = append(errs, c.djangoKeyErrors()...)
	default:
		errs = append(errs, fmt.Errorf("unknown template syntax %q", c.Syntax))
	}

	for _, name := range c.Formatters {
		if !slices.Contains(knownFormatters, name) {
			errs = append(errs, fmt.Errorf("unknown formatter %q", name))
		}
	}

	return errors.Join(errs...)
}

// djangoKeyErrors reports defaults keys pongo2 cannot place in a context.
func (c *Configuration) djangoKeyErrors() []error {
	var errs []error
	check := func(where string, defaults map[string]any) {
		for _, key := range slices.Sorted(maps.Keys(defaults)) {
			if !render.ValidName(key) {
				errs = append(errs, fmt.Errorf("%s: key %q is not an identifier, which django syntax requires", where, key))
			}
		}
	}

	check("defaults", c.Defaults)
	if c.Generator != nil {
		check("generator.defaults", c.Generator.Defaults)
	}
	passes := []struct {
		name  string
		specs []FanOutSpec
	}{
		{"perApi", c.PerAPI},
		{"perPath", c.PerPath},
		{"perModel", c.PerModel},
		{"perOperation", c.PerOperation},
	}
	for _, pass := range passes {
		for i, spec := range pass.specs {
			check(fmt.Sprintf("%s[%d].defaults", pass.name, i), spec.Defaults)
		}
	}
	return errs
}

// OutputRoot returns the configured output root or DefaultOutputDir.
func (c *Configuration) OutputRoot() string {
	if strings.TrimSpace(c.OutputDir) == "" {
		return DefaultOutputDir
	}
	return c.OutputDir
}

// TemplateSyntax returns the configured syntax, SyntaxText when unset.
func (c *Configuration) TemplateSyntax() string {
	if c.Syntax == "" {
		return SyntaxText
	}
	return c.Syntax
}

// EffectiveDefaults returns the run defaults with the generator's own
// defaults laid over them. The result is a fresh map.
func (c *Configuration) EffectiveDefaults() map[string]any {
	out := make(map[string]any, len(c.Defaults))
	maps.Copy(out, c.Defaults)
	if c.Generator != nil {
		maps.Copy(out, c.Generator.Defaults)
	}
	return out
}

// Verbose reports whether defaults.verbose is set.
func (c *Configuration) Verbose() bool {
	return truthy(c.EffectiveDefaults()["verbose"])
}

// Flat reports whether defaults.flat is set.
func (c *Configuration) Flat() bool {
	return truthy(c.EffectiveDefaults()["flat"])
}

// Subdirectory returns the run's output subdirectory: the run name, or the
// empty string in flat mode.
func (c *Configuration) Subdirectory(runName string) string {
	if c.Flat() {
		return ""
	}
	return runName
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	case int:
		return t != 0
	default:
		return false
	}
}
