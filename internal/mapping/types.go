package mapping

import (
	"slices"

	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/internal/transform"
)

// SourceType is where a field's value comes from.
type SourceType string

const (
	SourceCSV     SourceType = "csv"
	SourceFixed   SourceType = "fixed"
	SourceDerived SourceType = "derived"
)

// IsValid returns true for the known source types.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceCSV, SourceFixed, SourceDerived:
		return true
	default:
		return false
	}
}

// MaxSampleValues caps FieldMapping.SampleValues.
const MaxSampleValues = 5

// FieldMapping binds one ontology property to a value source.
type FieldMapping struct {
	Field    ontology.FieldID
	DataType ontology.DataType

	SourceType   SourceType
	SourceColumn string  // empty when no column is bound
	FixedValue   *string // nil when no fixed value is set

	Transformations []transform.Transformation
	Rule            rules.Rule // nil when no rule is set

	Confidence Confidence
	Score      float64
	// SampleValues holds up to MaxSampleValues raw values from SourceColumn.
	SampleValues []string
	// SuggestedTransformations are proposals from the matcher. They are
	// never applied until an operator moves them into Transformations.
	SuggestedTransformations []transform.Transformation
}

// Entity returns the entity half of Field.
func (f FieldMapping) Entity() string {
	e, _ := f.Field.Split()

	return e
}

// Property returns the property half of Field.
func (f FieldMapping) Property() string {
	_, p := f.Field.Split()

	return p
}

// IsMapped reports whether the field names a target and has a value source.
func (f FieldMapping) IsMapped() bool {
	if f.Entity() == "" || f.Property() == "" {
		return false
	}

	if f.SourceColumn != "" || f.FixedValue != nil {
		return true
	}

	return f.SourceType == SourceDerived && f.Rule != nil
}

// HasRule reports whether a business rule is attached.
func (f FieldMapping) HasRule() bool {
	return f.Rule != nil
}

// ReadsColumn reports whether the field's value is taken from a source column.
func (f FieldMapping) ReadsColumn() bool {
	return f.SourceColumn != "" && (f.SourceType == SourceCSV || f.SourceType == "")
}

// Clone returns a copy that shares no slices with f.
func (f FieldMapping) Clone() FieldMapping {
	out := f
	out.Transformations = slices.Clone(f.Transformations)
	out.SampleValues = slices.Clone(f.SampleValues)
	out.SuggestedTransformations = slices.Clone(f.SuggestedTransformations)

	if f.FixedValue != nil {
		v := *f.FixedValue
		out.FixedValue = &v
	}

	return out
}

// Unmapped returns an empty mapping for prop.
func Unmapped(prop ontology.Property) FieldMapping {
	return FieldMapping{
		Field:      prop.ID(),
		DataType:   prop.DataType,
		SourceType: SourceCSV,
		Confidence: ConfidenceLow,
	}
}
