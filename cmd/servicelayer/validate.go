package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/dispatch"
	"github.com/vango-dev/servicelayer/pkg/manifest"
	"github.com/vango-dev/servicelayer/pkg/mapping"
)

func validateCmd(g *globals) *cobra.Command {
	var (
		opts   routesOptions
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the registry document",
		Long: `Build the registry, the manifest and the routing table, and bind the
table to a router, reporting the first defect found.

Services whose manifest URL differs from their route path are reported as
warnings; with --strict they fail validation.

Examples:
  servicelayer validate
  servicelayer validate --config s3://config/services.json --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			entries := manifest.Build(reg, true, manifest.WithLogger(g.logger))
			table, err := mapping.Build(reg, opts.mappingOptions(cmd, g)...)
			if err != nil {
				return err
			}
			if err := dispatch.Mount(chi.NewRouter(), table, dispatch.Fallback(echoHandler()), dispatch.WithLogger(g.logger)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			divergent := reg.Divergent()
			for _, svc := range divergent {
				warn(out, "%s: manifest URL %s differs from route path %s",
					svc.Name, reg.EndpointURL(svc.Name), reg.RoutePath(svc.Name, svc.Entry))
			}
			if strict && len(divergent) > 0 {
				return errors.New("E132").
					WithDetailf("%d services would be called at a URL they are not routed at", len(divergent)).
					WithSuggestion("Set path or definition so both agree, or drop --strict")
			}
			success(out, "%d services, %d visible to administrators, %d routes", reg.Len(), len(entries), table.Len())
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when manifest URLs and route paths diverge")

	return cmd
}
