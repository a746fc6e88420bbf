package mapping

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"ontomap/internal/diagnostic"
	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/internal/transform"
)

// Heuristic thresholds. They are fixed for behavioural compatibility with
// existing mapping reviews and are not operator-tunable.
const (
	// SwappedCostRowRatio is the share of rows with actual < SwappedCostFactor*planned
	// above which planned and actual cost look swapped.
	SwappedCostRowRatio = 0.7
	SwappedCostFactor   = 0.5
	// LaborHoursHighMean suggests minutes were exported instead of hours.
	LaborHoursHighMean = 100.0
	// LaborHoursLowMean flags unusually small hour values.
	LaborHoursLowMean = 0.5
	// DateSampleSize is how many raw values are classified per date field.
	DateSampleSize = 20
)

// Issue codes.
const (
	CodeMissingRequired   = "missing_required_field"
	CodeDuplicateColumn   = "duplicate_source_column"
	CodeSwappedCosts      = "possible_swapped_costs"
	CodeLaborHoursHigh    = "labor_hours_scale_high"
	CodeLaborHoursLow     = "labor_hours_scale_low"
	CodeMixedDateFormats  = "mixed_date_formats"
	CodeInvalidTransform  = "invalid_transformation"
	CodeColumnNotFound    = "source_column_not_found"
	CodeRulePrefix        = "rule_"
	laborHoursPropertyKey = "labor_hours"
)

// Date format buckets.
const (
	DateFormatCompact = "YYYYMMDD"
	DateFormatISO     = "YYYY-MM-DD"
	DateFormatUS      = "MM/DD/YYYY"
	DateFormatUSShort = "MM/DD/YY"
	DateFormatUnknown = "unknown"
)

var dateBuckets = []struct {
	name string
	re   *regexp.Regexp
}{
	{DateFormatCompact, regexp.MustCompile(`^\d{8}$`)},
	{DateFormatISO, regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`)},
	{DateFormatUS, regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)},
	{DateFormatUSShort, regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`)},
}

// ClassifyDate returns the literal format bucket of a raw date string.
func ClassifyDate(raw string) string {
	s := strings.TrimSpace(raw)
	for _, b := range dateBuckets {
		if b.re.MatchString(s) {
			return b.name
		}
	}

	return DateFormatUnknown
}

// Validator checks mapping sets against an ontology catalog.
type Validator struct {
	catalog *ontology.Catalog
}

// NewValidator creates a Validator for catalog.
func NewValidator(catalog *ontology.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate runs every check over set and rows and returns all issues found.
// Checks are independent; none short-circuits another. Neither input is modified.
func (v *Validator) Validate(set Set, rows []map[string]string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	v.checkRequired(res, set)
	checkDuplicateColumns(res, set)
	checkSwappedCosts(res, set, rows)
	checkLaborHours(res, set, rows)
	v.checkDateFormats(res, set, rows)
	checkRules(res, set)
	checkTransformations(res, set)
	checkColumnsExist(res, set, rows)

	return res
}

func (v *Validator) checkRequired(res *diagnostic.Diagnostics, set Set) {
	if v.catalog == nil {
		return
	}

	for _, prop := range v.catalog.Required() {
		if set.IsMapped(prop.ID()) {
			continue
		}

		res.AddError(CodeMissingRequired, string(prop.ID()),
			fmt.Sprintf("required field %q is not mapped", prop.DisplayName),
			"map a source column, set a fixed value, or add a business rule")
	}
}

func checkDuplicateColumns(res *diagnostic.Diagnostics, set Set) {
	claims := map[string][]string{}

	var order []string

	for _, f := range set.Mapped() {
		if !f.ReadsColumn() {
			continue
		}

		if _, seen := claims[f.SourceColumn]; !seen {
			order = append(order, f.SourceColumn)
		}

		claims[f.SourceColumn] = append(claims[f.SourceColumn], string(f.Field))
	}

	for _, col := range order {
		fields := claims[col]
		if len(fields) < 2 {
			continue
		}

		res.AddError(CodeDuplicateColumn, fields[0],
			fmt.Sprintf("source column %q is mapped to more than one field: %s", col, strings.Join(fields, ", ")),
			"keep one mapping for the column and unmap the others")
	}
}

func checkSwappedCosts(res *diagnostic.Diagnostics, set Set, rows []map[string]string) {
	planned, okP := findMapped(set, func(p string) bool { return strings.Contains(p, "planned") && strings.Contains(p, "cost") })
	actual, okA := findMapped(set, func(p string) bool { return strings.Contains(p, "actual") && strings.Contains(p, "cost") })

	if !okP || !okA || !planned.ReadsColumn() || !actual.ReadsColumn() {
		return
	}

	var (
		comparable int
		suspicious []int
	)

	for i, row := range rows {
		p, ok1 := transform.ParseNumberString(row[planned.SourceColumn])
		a, ok2 := transform.ParseNumberString(row[actual.SourceColumn])

		if !ok1 || !ok2 {
			continue
		}

		comparable++

		if a < SwappedCostFactor*p {
			suspicious = append(suspicious, i)
		}
	}

	if comparable == 0 || float64(len(suspicious))/float64(comparable) <= SwappedCostRowRatio {
		return
	}

	res.Add(diagnostic.Issue{
		Severity: diagnostic.SeverityWarning,
		Code:     CodeSwappedCosts,
		Field:    string(actual.Field),
		Message: fmt.Sprintf("actual cost (%q) is below half of planned cost (%q) in %d of %d rows",
			actual.SourceColumn, planned.SourceColumn, len(suspicious), comparable),
		AffectedRows: suspicious,
		Suggestion:   "check whether the planned and actual cost columns are swapped",
	})
}

func checkLaborHours(res *diagnostic.Diagnostics, set Set, rows []map[string]string) {
	for _, f := range set.Mapped() {
		if !strings.Contains(f.Property(), laborHoursPropertyKey) || !f.ReadsColumn() {
			continue
		}

		var (
			sum float64
			n   int
		)

		for _, row := range rows {
			if v, ok := transform.ParseNumberString(row[f.SourceColumn]); ok {
				sum += v
				n++
			}
		}

		if n == 0 {
			continue
		}

		mean := sum / float64(n)

		switch {
		case mean > LaborHoursHighMean:
			res.AddWarning(CodeLaborHoursHigh, string(f.Field),
				fmt.Sprintf("average of %q is %.1f; values may be minutes rather than hours", f.SourceColumn, mean),
				"add a conversion or confirm the unit of the source column")
		case mean < LaborHoursLowMean:
			res.AddWarning(CodeLaborHoursLow, string(f.Field),
				fmt.Sprintf("average of %q is %.2f hours, which is unusually low", f.SourceColumn, mean),
				"confirm the unit of the source column")
		}
	}
}

func (v *Validator) checkDateFormats(res *diagnostic.Diagnostics, set Set, rows []map[string]string) {
	for _, f := range set.Mapped() {
		if v.dataType(f) != ontology.TypeDate || !f.ReadsColumn() {
			continue
		}

		var (
			buckets []string
			seen    int
		)

		for _, row := range rows {
			raw := strings.TrimSpace(row[f.SourceColumn])
			if raw == "" {
				continue
			}

			if b := ClassifyDate(raw); !slices.Contains(buckets, b) {
				buckets = append(buckets, b)
			}

			if seen++; seen >= DateSampleSize {
				break
			}
		}

		if len(buckets) < 2 {
			continue
		}

		res.AddError(CodeMixedDateFormats, string(f.Field),
			fmt.Sprintf("column %q mixes date formats: %s", f.SourceColumn, strings.Join(buckets, ", ")),
			"normalize the export or add a parseDate transformation per format")
	}
}

func checkRules(res *diagnostic.Diagnostics, set Set) {
	for _, f := range set.Fields() {
		if !f.HasRule() {
			continue
		}

		for _, e := range rules.Validate(f.Rule, set.AvailableFieldsFor(f.Field)) {
			res.AddError(CodeRulePrefix+string(e.Kind), string(f.Field), e.Message,
				"reference only mapped source columns other than the field's own")
		}
	}
}

func checkTransformations(res *diagnostic.Diagnostics, set Set) {
	for _, f := range set.Fields() {
		if err := transform.ValidateAll(f.Transformations); err != nil {
			res.AddError(CodeInvalidTransform, string(f.Field), err.Error(), "")
		}
	}
}

func checkColumnsExist(res *diagnostic.Diagnostics, set Set, rows []map[string]string) {
	if len(rows) == 0 {
		return
	}

	for _, col := range set.MappedColumns() {
		if _, ok := rows[0][col]; ok {
			continue
		}

		owner, _ := set.OwnerOf(col)
		res.AddWarning(CodeColumnNotFound, string(owner.Field),
			fmt.Sprintf("source column %q is not present in the sample data", col), "")
	}
}

func (v *Validator) dataType(f FieldMapping) ontology.DataType {
	if f.DataType != "" || v.catalog == nil {
		return f.DataType
	}

	if prop, ok := v.catalog.Lookup(f.Field); ok {
		return prop.DataType
	}

	return ""
}

func findMapped(set Set, match func(property string) bool) (FieldMapping, bool) {
	for _, f := range set.Mapped() {
		if match(f.Property()) {
			return f, true
		}
	}

	return FieldMapping{}, false
}
