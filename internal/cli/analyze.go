package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ontomap/internal/dataset"
	"ontomap/internal/engine"
	"ontomap/internal/ontology"
	"ontomap/pkg/logger"
)

type analyzeOptions struct {
	Sheet           string
	Level           string
	Export          string
	WorkOrderColumn string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Detect granularity and suggest column mappings for an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "Worksheet to read from an Excel workbook")
	cmd.Flags().StringVar(&opts.Level, "level", "", "Target granularity (header, operation, line_item); detected when empty")
	cmd.Flags().StringVar(&opts.WorkOrderColumn, "work-order-column", "",
		"Column identifying the work order; detected from headers when empty")
	cmd.Flags().StringVarP(&opts.Export, "export", "o", "", "Write the suggestions as a mapping profile to this path")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, path string, opts *analyzeOptions) error {
	level := ontology.Level(opts.Level)
	if level != "" && !level.IsValid() {
		return fmt.Errorf("invalid level %q", opts.Level)
	}

	ds, err := a.loadDataset(path, opts.Sheet)
	if err != nil {
		return err
	}

	var analysis *engine.Analysis

	if opts.WorkOrderColumn == "" {
		analysis = a.engine.Analyze(ds, level)
	} else if analysis, err = a.engine.AnalyzeWithColumn(ds, level, opts.WorkOrderColumn); err != nil {
		return err
	}

	a.dump("analysis", analysis)

	if opts.Export != "" {
		if err := engine.ExportSuggestions(analysis, opts.Export); err != nil {
			return err
		}

		logger.Info("suggestions written to %s", opts.Export)
	}

	if a.opts.JSON {
		return writeJSON(cmd.OutOrStdout(), analysis)
	}

	return printAnalysis(cmd.OutOrStdout(), analysis)
}

func (a *app) loadDataset(path, sheet string) (*dataset.Dataset, error) {
	opts := a.cfg.DatasetOptions()
	opts.Sheet = sheet

	ds, err := dataset.LoadFile(path, opts)
	if err != nil {
		return nil, err
	}

	for _, w := range ds.Warnings {
		logger.Warn("%s row %d: %s", ds.Name, w.Row, w.Message)
	}

	logger.Debug("loaded %s (%s, %s): %d columns, %d rows, %d sampled",
		ds.Name, ds.Format, ds.Encoding, len(ds.Columns), ds.RowCount, len(ds.SampleRows))

	return ds, nil
}
