package cli

import (
	"github.com/spf13/cobra"

	"ontomap/internal/ontology"
)

func newPreviewRuleCmd(a *app) *cobra.Command {
	opts := &profileOptions{}

	var field string

	cmd := &cobra.Command{
		Use:   "preview-rule <file>",
		Short: "Dry-run the business rule of one field against an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, set, err := a.engine.LoadProfile(opts.Profile)
			if err != nil {
				return err
			}

			ds, err := a.loadDataset(args[0], opts.Sheet)
			if err != nil {
				return err
			}

			res, err := a.engine.PreviewRule(set, ontology.FieldID(field), ds.SampleRows)
			if err != nil {
				return err
			}

			if a.opts.JSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			return printPreview(cmd.OutOrStdout(), field, res)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&field, "field", "f", "", "Field to preview (entity.property)")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}
