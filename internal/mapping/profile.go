package mapping

import (
	"fmt"

	"ontomap/internal/ontology"
	"ontomap/internal/rules"
	"ontomap/internal/transform"
)

// Profile is the serialised, operator-reviewed mapping for one export.
type Profile struct {
	Version        string         `yaml:"version" json:"version"`
	Granularity    ontology.Level `yaml:"granularity,omitempty" json:"granularity,omitempty"`
	GroupingFields []string       `yaml:"grouping_fields,omitempty" json:"grouping_fields,omitempty"`
	Fields         []FieldDef     `yaml:"fields" json:"fields"`
}

// FieldDef is one field entry in a Profile.
type FieldDef struct {
	Field           ontology.FieldID `yaml:"field" json:"field"`
	SourceType      SourceType       `yaml:"source_type,omitempty" json:"source_type,omitempty"`
	SourceColumn    string           `yaml:"source_column,omitempty" json:"source_column,omitempty"`
	FixedValue      *string          `yaml:"fixed_value,omitempty" json:"fixed_value,omitempty"`
	Transformations []transform.Def  `yaml:"transformations,omitempty" json:"transformations,omitempty"`
	Rule            *rules.Def       `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Informational fields written by suggestion export.
	Confidence               *Confidence     `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	Score                    float64         `yaml:"score,omitempty" json:"score,omitempty"`
	SampleValues             []string        `yaml:"sample_values,omitempty" json:"sample_values,omitempty"`
	SuggestedTransformations []transform.Def `yaml:"suggested_transformations,omitempty" json:"suggested_transformations,omitempty"`
}

// ToSet resolves the profile against catalog. Unknown fields and undecodable
// transformations or rules are errors; semantic problems are left to Validator.
func (p *Profile) ToSet(catalog *ontology.Catalog) (Set, error) {
	fields := make([]FieldMapping, 0, len(p.Fields))

	for i, fd := range p.Fields {
		prop, ok := catalog.Lookup(fd.Field)
		if !ok {
			return Set{}, fmt.Errorf("field #%d: unknown ontology field %q", i+1, fd.Field)
		}

		fm, err := fd.toMapping(prop)
		if err != nil {
			return Set{}, fmt.Errorf("field %s: %w", fd.Field, err)
		}

		fields = append(fields, fm)
	}

	return NewSet(fields...), nil
}

func (fd FieldDef) toMapping(prop ontology.Property) (FieldMapping, error) {
	ts, err := transform.FromDefs(fd.Transformations)
	if err != nil {
		return FieldMapping{}, err
	}

	suggested, err := transform.FromDefs(fd.SuggestedTransformations)
	if err != nil {
		return FieldMapping{}, err
	}

	var rule rules.Rule
	if fd.Rule != nil {
		if rule, err = rules.FromDef(*fd.Rule); err != nil {
			return FieldMapping{}, err
		}
	}

	fm := FieldMapping{
		Field:                    prop.ID(),
		DataType:                 prop.DataType,
		SourceType:               fd.SourceType,
		SourceColumn:             fd.SourceColumn,
		FixedValue:               fd.FixedValue,
		Transformations:          ts,
		Rule:                     rule,
		Score:                    fd.Score,
		SampleValues:             fd.SampleValues,
		SuggestedTransformations: suggested,
	}

	if fd.Confidence != nil {
		fm.Confidence = *fd.Confidence
	}

	return fm, nil
}

// NewProfile serialises a Set. Unmapped fields without a rule are omitted
// unless includeUnmapped is set.
func NewProfile(set Set, granularity ontology.Level, grouping []string, includeUnmapped bool) *Profile {
	p := &Profile{
		Version:        "1",
		Granularity:    granularity,
		GroupingFields: grouping,
		Fields:         []FieldDef{},
	}

	for _, f := range set.Fields() {
		if !includeUnmapped && !f.IsMapped() && !f.HasRule() {
			continue
		}

		conf := f.Confidence

		p.Fields = append(p.Fields, FieldDef{
			Field:                    f.Field,
			SourceType:               f.SourceType,
			SourceColumn:             f.SourceColumn,
			FixedValue:               f.FixedValue,
			Transformations:          transform.ToDefs(f.Transformations),
			Rule:                     rules.ToDef(f.Rule),
			Confidence:               &conf,
			Score:                    f.Score,
			SampleValues:             f.SampleValues,
			SuggestedTransformations: transform.ToDefs(f.SuggestedTransformations),
		})
	}

	return p
}
