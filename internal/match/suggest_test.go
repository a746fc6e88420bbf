package match

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontomap/internal/mapping"
	"ontomap/internal/ontology"
)

func defaultMatcher() *Matcher {
	return NewMatcher(ontology.MustDefault(), ontology.MustDefaultSynonyms())
}

func TestSuggest_ExactSynonym(t *testing.T) {
	rows := []map[string]string{{"WO Number": "WO-1001"}, {"WO Number": "WO-1002"}}

	set := defaultMatcher().Suggest([]string{"WO Number"}, rows, ontology.LevelHeader)

	fm, ok := set.Get("work_order.work_order_number")
	require.True(t, ok)
	assert.Equal(t, "WO Number", fm.SourceColumn)
	assert.Equal(t, mapping.ConfidenceHigh, fm.Confidence)
	assert.Equal(t, 1.0, fm.Score)
	assert.Equal(t, []string{"WO-1001", "WO-1002"}, fm.SampleValues)
	assert.True(t, fm.IsMapped())
}

func TestSuggest_TypeMismatchNeverHigh(t *testing.T) {
	catalog, err := ontology.NewCatalog("test", ontology.Entity{
		Key: "material", DisplayName: "Material", Level: ontology.LevelHeader,
		Properties: []ontology.Property{
			{Key: "material_cost", DisplayName: "Material Cost", DataType: ontology.TypeNumber},
		},
	})
	require.NoError(t, err)

	m := NewMatcher(catalog, ontology.Synonyms{"material_cost": {"material_code"}})
	rows := []map[string]string{{"Material Code": "ABC123"}, {"Material Code": "ABC124"}}

	set := m.Suggest([]string{"Material Code"}, rows, ontology.LevelHeader)

	fm, ok := set.Get("material.material_cost")
	require.True(t, ok)
	assert.NotEqual(t, mapping.ConfidenceHigh, fm.Confidence, spew.Sdump(fm))

	if fm.IsMapped() {
		assert.Equal(t, mapping.ConfidenceMedium, fm.Confidence)
		assert.Equal(t, TypeMismatchScore, fm.Score)
	}
}

func TestSuggest_TypeMismatchByScore(t *testing.T) {
	catalog, err := ontology.NewCatalog("test", ontology.Entity{
		Key: "work_order", DisplayName: "Work Order", Level: ontology.LevelHeader,
		Properties: []ontology.Property{
			{Key: "quantity", DisplayName: "Quantity", DataType: ontology.TypeNumber},
		},
	})
	require.NoError(t, err)

	m := NewMatcher(catalog, ontology.Synonyms{"quantity": {"order_qty", "qty"}})

	tests := []struct {
		name      string
		column    string
		mapped    bool
		discarded bool
	}{
		// exact synonym scores 1.0, downgraded to 0.5
		{"downgraded", "Qty", true, false},
		// "orderqtyx" contains "orderqty": 8/9*0.9 = 0.8, not above the downgrade bar
		{"discarded at boundary", "Order Qty X", false, true},
		// "qtylot" contains "qty": 3/6*0.9 = 0.45
		{"discarded", "Qty Lot", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, exps := m.SuggestWithExplanations(
				[]string{tt.column},
				[]map[string]string{{tt.column: "lots"}},
				ontology.LevelHeader,
			)

			fm, _ := set.Get("work_order.quantity")
			require.Len(t, exps, 1)
			require.NotNil(t, exps[0].TypeCheck)
			assert.False(t, exps[0].TypeCheck.Valid)
			assert.Equal(t, tt.mapped, fm.IsMapped())
			assert.Equal(t, tt.discarded, exps[0].Discarded)

			if tt.mapped {
				assert.Equal(t, mapping.ConfidenceMedium, fm.Confidence)
			}
		})
	}
}

func TestSuggest_Ambiguous(t *testing.T) {
	catalog, err := ontology.NewCatalog("test", ontology.Entity{
		Key: "work_order", DisplayName: "Work Order", Level: ontology.LevelHeader,
		Properties: []ontology.Property{
			{Key: "quantity", DisplayName: "Quantity", DataType: ontology.TypeNumber},
		},
	})
	require.NoError(t, err)

	m := NewMatcher(catalog, ontology.Synonyms{"quantity": {"order_qty", "qty"}})

	tests := []struct {
		name      string
		columns   []string
		ambiguous bool
	}{
		// both are exact synonyms; the leftmost wins the tie
		{"tie", []string{"Order Qty", "Qty"}, true},
		// 1.0 against 3/6*0.9 = 0.45
		{"clear winner", []string{"Qty", "Qty Lot"}, false},
		{"single column", []string{"Qty"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := map[string]string{}
			for _, c := range tt.columns {
				row[c] = "5"
			}

			set, exps := m.SuggestWithExplanations(tt.columns, []map[string]string{row}, ontology.LevelHeader)

			fm, _ := set.Get("work_order.quantity")
			require.True(t, fm.IsMapped())
			assert.Equal(t, tt.columns[0], fm.SourceColumn)
			assert.Equal(t, tt.ambiguous, exps[0].Ambiguous)
		})
	}
}

func TestSuggest_CandidatesCapped(t *testing.T) {
	columns := []string{"Qty 1", "Qty 2", "Qty 3", "Qty 4", "Qty 5", "Qty 6", "Qty 7"}

	catalog, err := ontology.NewCatalog("test", ontology.Entity{
		Key: "work_order", DisplayName: "Work Order", Level: ontology.LevelHeader,
		Properties: []ontology.Property{
			{Key: "quantity", DisplayName: "Quantity", DataType: ontology.TypeNumber},
		},
	})
	require.NoError(t, err)

	_, exps := NewMatcher(catalog, ontology.Synonyms{"quantity": {"qty"}}).
		SuggestWithExplanations(columns, nil, ontology.LevelHeader)

	require.Len(t, exps, 1)
	assert.Len(t, exps[0].Candidates, MaxExplainedCandidates)
	assert.Equal(t, "Qty 1", exps[0].Candidates[0].Column)
}

func TestSuggest_UnmatchedFieldsPresent(t *testing.T) {
	set := defaultMatcher().Suggest([]string{"Foo"}, nil, ontology.LevelHeader)

	props := ontology.MustDefault().PropertiesForLevel(ontology.LevelHeader)
	assert.Equal(t, len(props), set.Len())

	for _, fm := range set.Fields() {
		assert.False(t, fm.IsMapped(), fm.Field)
		assert.Equal(t, mapping.ConfidenceLow, fm.Confidence)
	}
}

func TestSuggest_LevelScopesEntities(t *testing.T) {
	m := defaultMatcher()
	columns := []string{"WO Number", "Op Seq", "Material"}

	header := m.Suggest(columns, nil, ontology.LevelHeader)
	operation := m.Suggest(columns, nil, ontology.LevelOperation)
	lineItem := m.Suggest(columns, nil, ontology.LevelLineItem)

	_, ok := header.Get("operation.operation_number")
	assert.False(t, ok)

	op, ok := operation.Get("operation.operation_number")
	require.True(t, ok)
	assert.Equal(t, "Op Seq", op.SourceColumn)

	_, ok = operation.Get("material.material_code")
	assert.False(t, ok)

	mat, ok := lineItem.Get("material.material_code")
	require.True(t, ok)
	assert.Equal(t, "Material", mat.SourceColumn)
}

func TestSuggest_Deterministic(t *testing.T) {
	m := defaultMatcher()
	columns := []string{"Job", "Part No", "Qty", "Due", "Actual Hours", "Machine", "Std Cost", "Total Cost"}
	rows := []map[string]string{
		{"Job": "J1", "Part No": "P-1", "Qty": "10", "Due": "20240105", "Actual Hours": "4.5 hrs", "Machine": "M-01", "Std Cost": "$1,000", "Total Cost": "900"},
		{"Job": "J2", "Part No": "P-2", "Qty": "5", "Due": "20240106", "Actual Hours": "3 hrs", "Machine": "M-02", "Std Cost": "$500", "Total Cost": "650"},
	}

	first := m.Suggest(columns, rows, ontology.LevelOperation)
	for i := 0; i < 5; i++ {
		again := m.Suggest(columns, rows, ontology.LevelOperation)
		assert.Equal(t, first.Fields(), again.Fields(), "run %d", i)
	}

	due, _ := first.Get("work_order.due_date")
	assert.Equal(t, "Due", due.SourceColumn)
	assert.NotEmpty(t, due.SuggestedTransformations)
	assert.Empty(t, due.Transformations, "suggestions are never auto-applied")
}
