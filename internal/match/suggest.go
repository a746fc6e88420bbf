package match

import (
	"strings"

	"ontomap/internal/mapping"
	"ontomap/internal/ontology"
)

// Acceptance thresholds.
const (
	// MinAcceptScore is the name score a best column must exceed to be suggested.
	MinAcceptScore = 0.4
	// TypeMismatchScore replaces the score of a match whose samples fail the type check.
	TypeMismatchScore = 0.5
	// MinDowngradeScore is the name score a type-invalid match must exceed to
	// survive as TypeMismatchScore; weaker ones are dropped.
	MinDowngradeScore = 0.8
)

// Matcher suggests column-to-property mappings from header names and sample values.
type Matcher struct {
	catalog  *ontology.Catalog
	synonyms ontology.Synonyms
}

// NewMatcher creates a Matcher over catalog with the given synonym table.
func NewMatcher(catalog *ontology.Catalog, synonyms ontology.Synonyms) *Matcher {
	return &Matcher{catalog: catalog, synonyms: synonyms}
}

// Explanation describes how a property's suggestion was reached.
type Explanation struct {
	Field      ontology.FieldID `json:"field"`
	Candidates CandidateList    `json:"candidates"`
	TypeCheck  *TypeCheck       `json:"type_check,omitempty"`
	// Discarded is set when the best column failed the type check with a
	// score too low to downgrade.
	Discarded bool `json:"discarded,omitempty"`
	// Ambiguous is set when an accepted column won by less than
	// DefaultAmbiguityThreshold over the runner-up.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// MaxExplainedCandidates caps the ranked columns kept per explanation.
const MaxExplainedCandidates = 5

// Suggest returns one FieldMapping for every property at or above level.
// Properties without an acceptable column are present but unmapped.
// The result depends only on its inputs.
func (m *Matcher) Suggest(columns []string, rows []map[string]string, level ontology.Level) mapping.Set {
	set, _ := m.SuggestWithExplanations(columns, rows, level)

	return set
}

// SuggestWithExplanations is Suggest plus the ranking behind each field.
func (m *Matcher) SuggestWithExplanations(
	columns []string,
	rows []map[string]string,
	level ontology.Level,
) (mapping.Set, []Explanation) {
	props := m.catalog.PropertiesForLevel(level)

	fields := make([]mapping.FieldMapping, 0, len(props))
	explanations := make([]Explanation, 0, len(props))

	for _, prop := range props {
		fm, exp := m.matchProperty(prop, columns, rows)
		fields = append(fields, fm)
		explanations = append(explanations, exp)
	}

	return mapping.NewSet(fields...), explanations
}

func (m *Matcher) matchProperty(
	prop ontology.Property,
	columns []string,
	rows []map[string]string,
) (mapping.FieldMapping, Explanation) {
	fm := mapping.Unmapped(prop)
	exp := Explanation{Field: prop.ID()}

	exp.Candidates = RankColumns(columns, m.synonyms.For(prop.Key)).Top(MaxExplainedCandidates)

	best := exp.Candidates.Best()
	if best == nil || best.Score <= MinAcceptScore {
		return fm, exp
	}

	values := ColumnValues(rows, best.Column)
	tc := CheckValues(values, prop.DataType)
	exp.TypeCheck = &tc

	score := best.Score
	if !tc.Valid {
		if score <= MinDowngradeScore {
			exp.Discarded = true

			return fm, exp
		}

		score = TypeMismatchScore
	}

	exp.Ambiguous = exp.Candidates.IsAmbiguous(DefaultAmbiguityThreshold)

	fm.SourceColumn = best.Column
	fm.Score = score
	fm.Confidence = mapping.ConfidenceFor(score)
	fm.SampleValues = sampleValues(values, mapping.MaxSampleValues)
	fm.SuggestedTransformations = tc.Suggested

	return fm, exp
}

// ColumnValues returns the raw value of column from every row.
func ColumnValues(rows []map[string]string, column string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[column])
	}

	return out
}

// sampleValues returns up to n distinct non-empty values in row order.
func sampleValues(values []string, n int) []string {
	var out []string

	seen := map[string]bool{}

	for _, v := range values {
		if len(out) == n {
			break
		}

		if strings.TrimSpace(v) == "" || seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	return out
}
