package engine

import (
	"errors"
	"fmt"

	"ontomap/internal/depgraph"
	"ontomap/internal/mapping"
	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/internal/transform"
)

// Record is one normalized row keyed by ontology field.
type Record map[ontology.FieldID]any

// Normalization is the loader-ready output of NormalizeRows.
type Normalization struct {
	// Order is the field order values were computed in.
	Order   []ontology.FieldID `json:"order"`
	Records []Record           `json:"records"`
	// Cyclic is set when rules form a cycle and set order was used instead.
	Cyclic bool `json:"cyclic,omitempty"`
}

// NormalizeRows computes every mapped field for each row. A field's value is
// its column or fixed value passed through its transformations; a rule that
// matches or falls back to its default overrides that value. Unmapped fields
// are omitted.
//
// Rules are evaluated in dependency order. Callers should review the set
// first: an invalid rule aborts with rules.ErrInvalidRule.
func (e *Engine) NormalizeRows(set mapping.Set, rows []map[string]string) (*Normalization, error) {
	graph := depgraph.Build(set)

	out := &Normalization{Records: make([]Record, 0, len(rows))}

	order, err := graph.EvaluationOrder()
	if err != nil {
		if !errors.Is(err, depgraph.ErrCycle) {
			return nil, err
		}

		out.Cyclic = true
		order = graph.Nodes()
	}

	out.Order = order

	fields := make([]mapping.FieldMapping, 0, len(order))

	for _, id := range order {
		f, ok := set.Get(id)
		if !ok || (!f.IsMapped() && !f.HasRule()) {
			continue
		}

		fields = append(fields, f)
	}

	for i, row := range rows {
		rec := make(Record, len(fields))

		for _, f := range fields {
			v, err := fieldValue(f, row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}

			rec[f.Field] = v
		}

		out.Records = append(out.Records, rec)
	}

	return out, nil
}

func fieldValue(f mapping.FieldMapping, row map[string]string) (any, error) {
	var v any

	switch {
	case f.FixedValue != nil:
		v = *f.FixedValue
	case f.ReadsColumn():
		if raw, ok := row[f.SourceColumn]; ok {
			v = raw
		}
	}

	v = transform.ApplyAll(v, f.Transformations)

	if f.Rule == nil {
		return v, nil
	}

	res, err := rules.Evaluate(f.Rule, row)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Field, err)
	}

	if res.Outcome != rules.OutcomeUnmatched {
		v = res.Value
	}

	return v, nil
}
