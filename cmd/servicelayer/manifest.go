package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vango-dev/servicelayer/pkg/manifest"
)

func manifestCmd(g *globals) *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the client manifest",
		Long: `Print the manifest a client would receive, as JSON.

Services exposed to administrators only are listed with --admin.

Examples:
  servicelayer manifest
  servicelayer manifest --admin --config services.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			entries := manifest.Build(reg, admin, manifest.WithLogger(g.logger))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Build the manifest for an administrator")

	return cmd
}
