package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"

	"ontomap/internal/engine"
	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/pkg/logger"
)

// dump writes v to the debug log when --debug is set.
func (a *app) dump(label string, v any) {
	if !logger.DebugEnabled() {
		return
	}

	logger.Debug("%s:\n%s", label, spew.Sdump(v))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func printAnalysis(w io.Writer, a *engine.Analysis) error {
	g := a.Granularity

	fmt.Fprintf(w, "Dataset:     %s (%d rows, %d columns)\n", a.Dataset.Name, a.Dataset.RowCount, len(a.Dataset.Columns))
	fmt.Fprintf(w, "Granularity: %s (confidence %.2f)\n", g.Granularity, g.Confidence)
	fmt.Fprintf(w, "Grouping:    %s\n", strings.Join(g.GroupingFields, ", "))
	fmt.Fprintf(w, "             %s\n\n", g.Reasoning)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tCOLUMN\tCONFIDENCE\tSCORE\tSUGGESTED")

	for _, f := range a.Mappings.Fields() {
		column := f.SourceColumn
		if column == "" {
			column = "-"
		}

		suggested := make([]string, 0, len(f.SuggestedTransformations))
		for _, t := range f.SuggestedTransformations {
			suggested = append(suggested, string(t.Kind()))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", f.Field, column, f.Confidence, f.Score, strings.Join(suggested, ","))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)

	return printReview(w, a.Review)
}

func printReview(w io.Writer, r *engine.Review) error {
	for _, issue := range r.Issues.Issues {
		fmt.Fprintf(w, "%-7s %s\n", issue.Severity, issue)

		if issue.Suggestion != "" {
			fmt.Fprintf(w, "        -> %s\n", issue.Suggestion)
		}
	}

	for _, cycle := range r.Graph.Cycles {
		fmt.Fprintf(w, "cycle   %s\n", joinIDs(cycle, " -> "))
	}

	s := r.Score
	fmt.Fprintf(w, "\nConfidence score: %d/100\n", s.Overall)
	fmt.Fprintf(w, "  completeness %.0f  validation %.0f  sample coverage %.0f  rule coverage %.0f\n",
		s.Breakdown.MappingCompleteness, s.Breakdown.ValidationHealth,
		s.Breakdown.SampleDataCoverage, s.Breakdown.BusinessRuleCoverage)

	for _, rec := range s.Recommendations {
		fmt.Fprintf(w, "  * %s\n", rec)
	}

	return nil
}

func printPreview(w io.Writer, field string, p rules.PreviewResult) error {
	fmt.Fprintf(w, "Rule preview for %s\n", field)

	for _, e := range p.Errors {
		fmt.Fprintf(w, "error   %s\n", e)
	}

	fmt.Fprintf(w, "rows %d: matched %d, default %d, unmatched %d\n",
		p.TotalRows, p.MatchedRows, p.DefaultRows, p.UnmatchedRows)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range p.Matches {
		fmt.Fprintf(tw, "  row %d\t%s\t=> %v\t(%s)\n", m.Row, m.Input, m.Value, m.Outcome)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	for _, warning := range p.Warnings {
		fmt.Fprintf(w, "warning %s\n", warning)
	}

	return nil
}

func printCatalog(w io.Writer, c *ontology.Catalog) error {
	fmt.Fprintf(w, "Ontology catalog %s\n", c.Version)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTYPE\tLEVEL\tREQUIRED\tNAME")

	for _, e := range c.Entities {
		for _, p := range e.Properties {
			required := ""
			if p.Required {
				required = "yes"
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID(), p.DataType, e.Level, required, p.DisplayName)
		}
	}

	return tw.Flush()
}

func joinIDs(ids []ontology.FieldID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}

	return strings.Join(parts, sep)
}
