package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shuttle",
		Short:         "Config-driven template expansion for OpenAPI documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newConfigsCmd())
	return root
}
