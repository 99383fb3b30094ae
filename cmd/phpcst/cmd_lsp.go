package main

import (
	"github.com/dhamidi/phpcst/php/workspace"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var skipVendor bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := workspace.NewLSPServer(version, workspace.WithSkipVendor(skipVendor))
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&skipVendor, "skip-vendor", true, "leave vendor directories out of the initial scan")

	return cmd
}
