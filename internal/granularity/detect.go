package granularity

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"ontomap/internal/match"
	"ontomap/internal/ontology"
)

// Confidence values for each detection path.
const (
	ConfidenceNoWorkOrder    = 0.3
	ConfidenceOneRowPerOrder = 0.95
	ConfidenceLineItem       = 0.9
	ConfidenceOperation      = 0.85
	ConfidenceMaterial       = 0.8
	ConfidenceUndetermined   = 0.5
	// SingleRowTolerance is the rows-per-work-order average still treated as one row.
	SingleRowTolerance = 1.1
)

// Header patterns, matched against match.NormalizeHeader output.
var (
	workOrderHeader = regexp.MustCompile(
		`^((work|production|prod|manufacturing|mfg)order|job|wo|mo)(id|no|nr|nbr|num|number)?$`)
	operationHeader = regexp.MustCompile(
		`^(operation|oper|op|step|routing|routingstep|sequence|seq|opseq|operationseq)(id|no|nr|nbr|num|number|seq|code)?$`)
	lineItemHeader = regexp.MustCompile(
		`^(line|lineitem|bomline|itemline|position|pos)(id|no|nr|nbr|num|number)?$`)
)

// Analysis is the detected granularity of a dataset.
type Analysis struct {
	Granularity ontology.Level `json:"granularity"`
	Confidence  float64        `json:"confidence"`
	// GroupingFields are the columns that identify one logical record.
	GroupingFields              []string `json:"grouping_fields"`
	HasMultipleRowsPerWorkOrder bool     `json:"has_multiple_rows_per_work_order"`
	RowsPerWorkOrder            float64  `json:"rows_per_work_order"`
	AggregationNeeded           bool     `json:"aggregation_needed"`
	Reasoning                   string   `json:"reasoning"`

	WorkOrderColumn string `json:"work_order_column,omitempty"`
	OperationColumn string `json:"operation_column,omitempty"`
	LineItemColumn  string `json:"line_item_column,omitempty"`
	MaterialColumn  string `json:"material_column,omitempty"`
}

// Detect finds the work order column by header and analyses row multiplicity.
func Detect(columns []string, rows []map[string]string) Analysis {
	woCol := findColumn(columns, "", func(n string) bool { return workOrderHeader.MatchString(n) })
	if woCol == "" {
		return Analysis{
			Granularity:    ontology.LevelHeader,
			Confidence:     ConfidenceNoWorkOrder,
			GroupingFields: []string{},
			Reasoning:      "No work order identifier column was found; assuming one row per work order.",
		}
	}

	return DetectWithColumn(columns, rows, woCol)
}

// DetectWithColumn analyses rows using an operator-chosen work order column.
func DetectWithColumn(columns []string, rows []map[string]string, woCol string) Analysis {
	a := Analysis{
		Granularity:     ontology.LevelHeader,
		WorkOrderColumn: woCol,
		GroupingFields:  []string{woCol},
	}

	counts, order := countValues(rows, woCol)
	if len(order) == 0 {
		a.Confidence = ConfidenceNoWorkOrder
		a.Reasoning = fmt.Sprintf("Column %q has no work order values in the sample; assuming one row per work order.", woCol)

		return a
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	avg := float64(total) / float64(len(order))
	a.RowsPerWorkOrder = math.Round(avg*100) / 100

	if avg <= SingleRowTolerance {
		a.Confidence = ConfidenceOneRowPerOrder
		a.Reasoning = fmt.Sprintf("%d rows cover %d work orders in %q (%.2f rows each); each row is a work order.",
			total, len(order), woCol, avg)

		return a
	}

	a.HasMultipleRowsPerWorkOrder = true
	a.AggregationNeeded = true
	a.Granularity = ontology.LevelOperation

	a.OperationColumn = findColumn(columns, woCol, operationHeader.MatchString)
	a.LineItemColumn = findColumn(columns, woCol, lineItemHeader.MatchString)
	a.MaterialColumn = findColumn(columns, woCol, func(n string) bool {
		return strings.Contains(n, "material") || strings.Contains(n, "component")
	})

	group := rowsFor(rows, woCol, busiest(counts, order))
	prefix := fmt.Sprintf("Work orders in %q repeat %.2f times on average.", woCol, avg)

	switch {
	case a.OperationColumn != "" && a.LineItemColumn != "":
		a.Granularity = ontology.LevelLineItem
		a.Confidence = ConfidenceLineItem
		a.GroupingFields = []string{woCol, a.OperationColumn, a.LineItemColumn}
		a.Reasoning = fmt.Sprintf("%s Operation column %q and line column %q suggest one row per line item.",
			prefix, a.OperationColumn, a.LineItemColumn)
	case a.OperationColumn != "":
		a.Confidence = ConfidenceOperation
		a.GroupingFields = []string{woCol, a.OperationColumn}

		if distinct(group, a.OperationColumn) > 1 {
			a.Reasoning = fmt.Sprintf("%s Operation column %q varies within a work order; each row is an operation.",
				prefix, a.OperationColumn)
		} else {
			a.Reasoning = fmt.Sprintf("%s Operation column %q was found but does not vary within the sampled work order.",
				prefix, a.OperationColumn)
		}
	case a.MaterialColumn != "" && distinct(group, a.MaterialColumn) > 1:
		a.Confidence = ConfidenceMaterial
		a.GroupingFields = []string{woCol, a.MaterialColumn}
		a.Reasoning = fmt.Sprintf("%s Material column %q varies within a work order; rows look like material consumption.",
			prefix, a.MaterialColumn)
	default:
		a.Confidence = ConfidenceUndetermined
		a.Reasoning = fmt.Sprintf("%s No operation, line or material column explains the repetition; review the grouping manually.",
			prefix)
	}

	return a
}

// findColumn returns the first column, other than skip, whose normalized
// header satisfies pred.
func findColumn(columns []string, skip string, pred func(normalized string) bool) string {
	for _, c := range columns {
		if c == skip {
			continue
		}

		if pred(match.NormalizeHeader(c)) {
			return c
		}
	}

	return ""
}

// countValues counts non-empty trimmed values of column in first-seen order.
func countValues(rows []map[string]string, column string) (map[string]int, []string) {
	counts := map[string]int{}

	var order []string

	for _, row := range rows {
		v := strings.TrimSpace(row[column])
		if v == "" {
			continue
		}

		if counts[v] == 0 {
			order = append(order, v)
		}

		counts[v]++
	}

	return counts, order
}

// busiest returns the most frequent value, earliest seen on ties.
func busiest(counts map[string]int, order []string) string {
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}

	return best
}

func rowsFor(rows []map[string]string, column, value string) []map[string]string {
	var out []map[string]string

	for _, row := range rows {
		if strings.TrimSpace(row[column]) == value {
			out = append(out, row)
		}
	}

	return out
}

func distinct(rows []map[string]string, column string) int {
	seen := map[string]bool{}
	for _, row := range rows {
		seen[strings.TrimSpace(row[column])] = true
	}

	return len(seen)
}
