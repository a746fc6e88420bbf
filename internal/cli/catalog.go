package cli

import (
	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the active ontology catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.opts.JSON {
				return writeJSON(cmd.OutOrStdout(), a.engine.Catalog())
			}

			return printCatalog(cmd.OutOrStdout(), a.engine.Catalog())
		},
	}
}
