package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpcf/shuttle/config"
	"github.com/cpcf/shuttle/debug"
	"github.com/cpcf/shuttle/engine"
)

type generateOptions struct {
	config    string
	output    string
	templates string
	flat      bool
	verbose   bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <openapi-file>",
		Short: "Generate files from an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "built-in configuration name or path to a YAML configuration")
	flags.StringVarP(&opts.output, "output", "o", "", "output root (overrides outputDir)")
	flags.StringVarP(&opts.templates, "templates", "t", "", "template directory (overrides templateDir)")
	flags.BoolVar(&opts.flat, "flat", false, "write into the output root instead of a run subdirectory")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every rendered file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runGenerate(cmd *cobra.Command, specPath string, opts generateOptions) error {
	cfg, runName, err := loadConfiguration(opts.config)
	if err != nil {
		return err
	}

	if opts.output != "" {
		cfg.OutputDir = opts.output
	}
	if opts.templates != "" {
		cfg.TemplateDir = opts.templates
	}
	if cfg.Defaults == nil {
		cfg.Defaults = make(map[string]any)
	}
	if opts.flat {
		cfg.Defaults["flat"] = true
	}
	if opts.verbose {
		cfg.Defaults["verbose"] = true
	}

	raw, err := os.ReadFile(specPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", specPath, err)
	}

	logger := debug.ForVerbose(cfg.Verbose(), cmd.ErrOrStderr()).Logger()
	eng := engine.New(engine.WithLogger(logger))
	if err := eng.Generate(cmd.Context(), raw, cfg, runName); err != nil {
		return err
	}

	dir := filepath.Join(cfg.OutputRoot(), cfg.Subdirectory(runName))
	tree, err := outputTree(dir)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), tree)
	return nil
}

// loadConfiguration resolves ref as a built-in name first, then as a file.
// The returned name is the run name: the built-in name or the file's base
// name without extension.
func loadConfiguration(ref string) (*config.Configuration, string, error) {
	catalog := config.Builtin()
	if catalog.Has(ref) {
		cfg, err := catalog.Load(ref)
		return cfg, ref, err
	}

	cfg, err := config.Load(ref)
	if err != nil {
		return nil, "", err
	}
	name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	return cfg, name, nil
}
