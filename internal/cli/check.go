package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitCodeInvalid is returned by check when the mapping has hard errors.
const ExitCodeInvalid = 2

type profileOptions struct {
	Profile string
	Sheet   string
}

func (o *profileOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Profile, "profile", "p", "", "Mapping profile (YAML or JSON)")
	cmd.Flags().StringVar(&o.Sheet, "sheet", "", "Worksheet to read from an Excel workbook")
	_ = cmd.MarkFlagRequired("profile")
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &profileOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a mapping profile against an export and score it",
		Long: `check validates the mapping profile against the export's sample rows,
looks for dependency cycles between business rules and prints a confidence
score. It exits with status 2 when the mapping has hard errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0], opts)
		},
	}

	opts.bind(cmd)

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, path string, opts *profileOptions) error {
	_, set, err := a.engine.LoadProfile(opts.Profile)
	if err != nil {
		return err
	}

	ds, err := a.loadDataset(path, opts.Sheet)
	if err != nil {
		return err
	}

	review := a.engine.Review(set, ds.SampleRows)
	a.dump("review", review)

	if a.opts.JSON {
		err = writeJSON(cmd.OutOrStdout(), review)
	} else {
		err = printReview(cmd.OutOrStdout(), review)
	}

	if err != nil {
		return err
	}

	if !review.Valid() {
		return &ExitError{
			Code: ExitCodeInvalid,
			Err:  fmt.Errorf("mapping has errors: %w", review.Issues.Error()),
		}
	}

	return nil
}
