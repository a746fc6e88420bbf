package score

import (
	"fmt"
	"math"
	"strings"

	"ontomap/internal/diagnostic"
	"ontomap/internal/mapping"
	"ontomap/internal/ontology"
)

// Component weights of the overall score.
const (
	WeightCompleteness = 0.4
	WeightHealth       = 0.3
	WeightSampleData   = 0.2
	WeightRules        = 0.1
)

// Penalties and thresholds.
const (
	ErrorPenalty   = 20
	WarningPenalty = 5
	// GoodRuleCoverage is the rule coverage below which rule opportunities are recommended.
	GoodRuleCoverage = 30
)

// Breakdown holds each component on a 0 to 100 scale.
type Breakdown struct {
	MappingCompleteness  float64 `json:"mapping_completeness"`
	ValidationHealth     float64 `json:"validation_health"`
	SampleDataCoverage   float64 `json:"sample_data_coverage"`
	BusinessRuleCoverage float64 `json:"business_rule_coverage"`
}

// Metrics are the raw counts behind the breakdown.
type Metrics struct {
	TotalFields          int `json:"total_fields"`
	MappedFields         int `json:"mapped_fields"`
	RequiredFields       int `json:"required_fields"`
	RequiredFieldsMapped int `json:"required_fields_mapped"`
	FieldsWithRules      int `json:"fields_with_rules"`
	ColumnFields         int `json:"column_fields"`
	ColumnFieldsCovered  int `json:"column_fields_covered"`
	Errors               int `json:"errors"`
	Warnings             int `json:"warnings"`
	RuleOpportunities    int `json:"rule_opportunities"`
	LowConfidenceMatches int `json:"low_confidence_matches"`
}

// ConfidenceScore is the scorer's result.
type ConfidenceScore struct {
	Overall         int       `json:"overall"`
	Breakdown       Breakdown `json:"breakdown"`
	Metrics         Metrics   `json:"metrics"`
	Warnings        []string  `json:"warnings"`
	Recommendations []string  `json:"recommendations"`
}

// Scorer scores mapping sets against a catalog.
type Scorer struct {
	catalog   *ontology.Catalog
	validator *mapping.Validator
}

// NewScorer creates a Scorer. The validator supplies the issue counts.
func NewScorer(catalog *ontology.Catalog, validator *mapping.Validator) *Scorer {
	return &Scorer{catalog: catalog, validator: validator}
}

// Score validates set against rows and scores the result. rows may be nil
// when no sample data is available.
func (s *Scorer) Score(set mapping.Set, rows []map[string]string) ConfidenceScore {
	return s.ScoreIssues(set, rows, s.validator.Validate(set, rows))
}

// ScoreIssues scores set using issues already produced by the validator.
func (s *Scorer) ScoreIssues(set mapping.Set, rows []map[string]string, issues *diagnostic.Diagnostics) ConfidenceScore {
	m := s.metrics(set, rows, issues)

	b := Breakdown{
		MappingCompleteness:  percent(m.RequiredFieldsMapped, m.RequiredFields, 100),
		BusinessRuleCoverage: percent(m.FieldsWithRules, m.MappedFields, 0),
		ValidationHealth:     math.Max(0, 100-ErrorPenalty*float64(m.Errors)-WarningPenalty*float64(m.Warnings)),
	}

	b.SampleDataCoverage = 100
	if len(rows) > 0 {
		b.SampleDataCoverage = percent(m.ColumnFieldsCovered, m.ColumnFields, 0)
	}

	overall := WeightCompleteness*b.MappingCompleteness +
		WeightHealth*b.ValidationHealth +
		WeightSampleData*b.SampleDataCoverage +
		WeightRules*b.BusinessRuleCoverage

	return ConfidenceScore{
		Overall:         int(math.Round(overall)),
		Breakdown:       b,
		Metrics:         m,
		Warnings:        warnings(m, len(rows) > 0),
		Recommendations: recommendations(m, b),
	}
}

func (s *Scorer) metrics(set mapping.Set, rows []map[string]string, issues *diagnostic.Diagnostics) Metrics {
	m := Metrics{TotalFields: set.Len()}

	if s.catalog != nil {
		for _, prop := range s.catalog.Required() {
			m.RequiredFields++

			if set.IsMapped(prop.ID()) {
				m.RequiredFieldsMapped++
			}
		}
	}

	for _, f := range set.Fields() {
		mapped := f.IsMapped()

		if mapped {
			m.MappedFields++

			if f.HasRule() {
				m.FieldsWithRules++
			}

			if f.ReadsColumn() {
				m.ColumnFields++

				if columnHasValue(rows, f.SourceColumn) {
					m.ColumnFieldsCovered++
				}

				if f.Confidence == mapping.ConfidenceLow && f.Score > 0 {
					m.LowConfidenceMatches++
				}
			}
		}

		if !mapped && !f.HasRule() && s.derivable(f.Field) {
			m.RuleOpportunities++
		}
	}

	if issues != nil {
		m.Errors = issues.Count(diagnostic.SeverityError)
		m.Warnings = issues.Count(diagnostic.SeverityWarning)
	}

	return m
}

func (s *Scorer) derivable(id ontology.FieldID) bool {
	if s.catalog == nil {
		return false
	}

	prop, ok := s.catalog.Lookup(id)

	return ok && prop.Derivable
}

func warnings(m Metrics, haveRows bool) []string {
	out := []string{}

	if m.Errors > 0 {
		out = append(out, fmt.Sprintf("%d validation error(s) must be resolved before the mapping can be saved", m.Errors))
	}

	if m.LowConfidenceMatches > 0 {
		out = append(out, fmt.Sprintf("%d column match(es) have low confidence", m.LowConfidenceMatches))
	}

	if haveRows && m.ColumnFieldsCovered < m.ColumnFields {
		out = append(out, fmt.Sprintf("%d mapped column(s) have no values in the sample data", m.ColumnFields-m.ColumnFieldsCovered))
	}

	return out
}

func recommendations(m Metrics, b Breakdown) []string {
	out := []string{}

	if b.MappingCompleteness < 100 {
		out = append(out, fmt.Sprintf("Map the %d missing required field(s)", m.RequiredFields-m.RequiredFieldsMapped))
	}

	if m.Errors > 0 {
		out = append(out, fmt.Sprintf("Resolve %d validation error(s)", m.Errors))
	}

	if m.Warnings > 0 {
		out = append(out, fmt.Sprintf("Review %d validation warning(s)", m.Warnings))
	}

	if b.BusinessRuleCoverage < GoodRuleCoverage && m.RuleOpportunities > 0 {
		out = append(out, fmt.Sprintf("Consider business rules for %d derivable field(s)", m.RuleOpportunities))
	}

	if len(out) == 0 && b.MappingCompleteness == 100 {
		out = append(out, "Mapping is complete and consistent; ready to import")
	}

	return out
}

func percent(n, d int, empty float64) float64 {
	if d == 0 {
		return empty
	}

	return float64(n) / float64(d) * 100
}

func columnHasValue(rows []map[string]string, column string) bool {
	for _, row := range rows {
		if strings.TrimSpace(row[column]) != "" {
			return true
		}
	}

	return false
}
