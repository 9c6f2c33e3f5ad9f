package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/cpcf/shuttle/config"
)

func newConfigsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List the built-in configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := config.Builtin()
			names, err := catalog.Names()
			if err != nil {
				return err
			}

			tree := treeprint.NewWithRoot("configurations")
			for _, name := range names {
				cfg, err := catalog.Load(name)
				if err != nil {
					return err
				}
				branch := tree.AddBranch(name)
				if cfg.Generator != nil && cfg.Generator.Name != "" {
					branch.AddMetaNode("generator", cfg.Generator.Name)
				}
				branch.AddMetaNode("syntax", cfg.TemplateSyntax())
				passes := []struct {
					name  string
					count int
				}{
					{"transformations", len(cfg.Transformations)},
					{"perApi", len(cfg.PerAPI)},
					{"perPath", len(cfg.PerPath)},
					{"perModel", len(cfg.PerModel)},
					{"perOperation", len(cfg.PerOperation)},
				}
				for _, pass := range passes {
					if pass.count > 0 {
						branch.AddMetaNode(pass.name, fmt.Sprintf("%d", pass.count))
					}
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), tree.String())
			return nil
		},
	}
}
