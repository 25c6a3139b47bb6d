package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/servicelayer/pkg/mapping"
)

type routesOptions struct {
	registryPath string
	noForms      bool
	asJSON       bool
}

func (o routesOptions) mappingOptions(cmd *cobra.Command, g *globals) []mapping.Option {
	opts := []mapping.Option{mapping.WithLogger(g.logger)}
	if cmd.Flags().Changed("registry-path") {
		opts = append(opts, mapping.WithRegistryPath(o.registryPath))
	}
	if o.noForms {
		opts = append(opts, mapping.WithoutForms())
	}
	return opts
}

func (o *routesOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.registryPath, "registry-path", "", "Override the registry path (empty disables it)")
	cmd.Flags().BoolVar(&o.noForms, "no-forms", false, "Omit the forms routes")
}

func routesCmd(g *globals) *cobra.Command {
	var opts routesOptions

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the routing table",
		Long: `Print the routing table derived from the registry, in processing order.

Examples:
  servicelayer routes
  servicelayer routes --registry-path /registry --no-forms
  servicelayer routes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			table, err := mapping.Build(reg, opts.mappingOptions(cmd, g)...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(routeRows(table))
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tKIND\tSERVICE\tHANDLER\tPATTERN")
			for _, r := range routeRows(table) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Path, r.Kind, dash(r.Service), dash(r.Handler), r.Pattern)
			}
			return tw.Flush()
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the table as JSON")

	return cmd
}

type routeRow struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
	Kind    string `json:"kind"`
	Service string `json:"service,omitempty"`
	Handler string `json:"handler,omitempty"`
}

func routeRows(table *mapping.Table) []routeRow {
	rows := make([]routeRow, 0, table.Len())
	for _, r := range table.Routes() {
		rows = append(rows, routeRow{
			Path:    r.Path,
			Pattern: r.Pattern,
			Kind:    r.Kind.String(),
			Service: r.Service,
			Handler: r.Handler,
		})
	}
	return rows
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
