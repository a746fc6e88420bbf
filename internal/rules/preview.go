package rules

import (
	"fmt"
	"strings"
)

// MaxPreviewMatches caps the illustrative rows returned by Preview.
const MaxPreviewMatches = 5

// Match is one illustrative row from a preview.
type Match struct {
	Row     int     `json:"row"`
	Input   string  `json:"input"`
	Value   any     `json:"value"`
	Outcome Outcome `json:"outcome"`
	Label   string  `json:"label,omitempty"`
}

// PreviewResult summarises how a rule behaves over sample rows. When Errors is
// non-empty nothing was evaluated and all counts are zero.
type PreviewResult struct {
	TotalRows     int         `json:"total_rows"`
	MatchedRows   int         `json:"matched_rows"`
	DefaultRows   int         `json:"default_rows"`
	UnmatchedRows int         `json:"unmatched_rows"`
	Matches       []Match     `json:"matches"`
	Warnings      []string    `json:"warnings"`
	Errors        []RuleError `json:"errors"`
}

// Valid reports whether the rule passed structural validation.
func (p PreviewResult) Valid() bool {
	return len(p.Errors) == 0
}

// Preview validates r against availableFields and, when valid, evaluates
// it over rows.
func Preview(r Rule, rows []map[string]string, availableFields []string) PreviewResult {
	p := PreviewResult{Matches: []Match{}, Warnings: []string{}}

	if errs := Validate(r, availableFields); len(errs) > 0 {
		p.Errors = errs

		return p
	}

	if l, ok := r.(Lookup); ok && len(l.Table) == 0 {
		p.Warnings = append(p.Warnings, "lookup table is empty")
	}

	refs := r.References()

	for i, row := range rows {
		res, err := Evaluate(r, row)
		if err != nil {
			// Unreachable after Validate; still counted so totals hold.
			res = Result{Outcome: OutcomeUnmatched}
		}

		p.TotalRows++

		switch res.Outcome {
		case OutcomeMatched:
			p.MatchedRows++
		case OutcomeDefaulted:
			p.DefaultRows++
		default:
			p.UnmatchedRows++
		}

		if res.Matched() && len(p.Matches) < MaxPreviewMatches {
			p.Matches = append(p.Matches, Match{
				Row:     i,
				Input:   describeInput(refs, row),
				Value:   res.Value,
				Outcome: res.Outcome,
				Label:   res.Label,
			})
		}
	}

	if p.TotalRows > 0 && p.MatchedRows == 0 {
		p.Warnings = append(p.Warnings, "no sample rows matched the rule")
	}

	if p.UnmatchedRows > 0 {
		p.Warnings = append(p.Warnings,
			fmt.Sprintf("%d of %d rows did not match and no default value is set", p.UnmatchedRows, p.TotalRows))
	}

	return p
}

func describeInput(refs []string, row map[string]string) string {
	if len(refs) == 1 {
		return strings.TrimSpace(row[refs[0]])
	}

	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, fmt.Sprintf("%s=%s", ref, strings.TrimSpace(row[ref])))
	}

	return strings.Join(parts, ", ")
}
