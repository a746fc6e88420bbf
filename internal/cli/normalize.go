package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ontomap/pkg/logger"
)

func newNormalizeCmd(a *app) *cobra.Command {
	opts := &profileOptions{}

	var out string

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Compute loader records for the sampled rows of an export",
		Long: `normalize applies each mapped field's transformations and business rule
to the sampled rows and prints the resulting records as JSON, keyed by
ontology field. Rows beyond the sample limit are not read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, set, err := a.engine.LoadProfile(opts.Profile)
			if err != nil {
				return err
			}

			ds, err := a.loadDataset(args[0], opts.Sheet)
			if err != nil {
				return err
			}

			if review := a.engine.Review(set, ds.SampleRows); !review.Valid() {
				for _, issue := range review.Issues.Issues {
					logger.Warn("%s", issue)
				}

				return &ExitError{Code: ExitCodeInvalid, Err: review.Issues.Error()}
			}

			res, err := a.engine.NormalizeRows(set, ds.SampleRows)
			if err != nil {
				return err
			}

			if res.Cyclic {
				logger.Warn("business rules form a cycle; fields were evaluated in profile order")
			}

			if out == "" {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()

			if err := writeJSON(f, res); err != nil {
				return err
			}

			logger.Info("%d records written to %s", len(res.Records), out)

			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write records to this file instead of stdout")

	return cmd
}
