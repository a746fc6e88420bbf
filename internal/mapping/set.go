package mapping

import (
	"slices"

	"ontomap/internal/ontology"
)

// Set is an ordered, immutable collection of field mappings keyed by field.
// Edits return a new Set; the receiver is never modified.
type Set struct {
	fields []FieldMapping
	index  map[ontology.FieldID]int
}

// NewSet builds a Set. A later mapping for the same field replaces an earlier one
// in place.
func NewSet(fields ...FieldMapping) Set {
	s := Set{index: make(map[ontology.FieldID]int, len(fields))}

	for _, f := range fields {
		if i, ok := s.index[f.Field]; ok {
			s.fields[i] = f.Clone()

			continue
		}

		s.index[f.Field] = len(s.fields)
		s.fields = append(s.fields, f.Clone())
	}

	return s
}

// Len returns the number of fields.
func (s Set) Len() int { return len(s.fields) }

// Fields returns a copy of all mappings in order.
func (s Set) Fields() []FieldMapping {
	out := make([]FieldMapping, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Clone()
	}

	return out
}

// IDs returns the field identifiers in order.
func (s Set) IDs() []ontology.FieldID {
	out := make([]ontology.FieldID, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Field
	}

	return out
}

// Get returns the mapping for id.
func (s Set) Get(id ontology.FieldID) (FieldMapping, bool) {
	i, ok := s.index[id]
	if !ok {
		return FieldMapping{}, false
	}

	return s.fields[i].Clone(), true
}

// With returns a Set with f added or replaced.
func (s Set) With(f FieldMapping) Set {
	fields := slices.Clone(s.fields)

	return NewSet(append(fields, f)...)
}

// Without returns a Set with id removed.
func (s Set) Without(id ontology.FieldID) Set {
	fields := make([]FieldMapping, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Field != id {
			fields = append(fields, f)
		}
	}

	return NewSet(fields...)
}

// Mapped returns the mapped fields in order.
func (s Set) Mapped() []FieldMapping {
	var out []FieldMapping

	for _, f := range s.fields {
		if f.IsMapped() {
			out = append(out, f.Clone())
		}
	}

	return out
}

// IsMapped reports whether id is present and mapped.
func (s Set) IsMapped(id ontology.FieldID) bool {
	f, ok := s.Get(id)

	return ok && f.IsMapped()
}

// OwnerOf returns the first mapped field that reads column.
func (s Set) OwnerOf(column string) (FieldMapping, bool) {
	for _, f := range s.fields {
		if f.IsMapped() && f.ReadsColumn() && f.SourceColumn == column {
			return f.Clone(), true
		}
	}

	return FieldMapping{}, false
}

// MappedColumns returns the distinct source columns read by mapped fields.
func (s Set) MappedColumns() []string {
	var out []string

	for _, f := range s.fields {
		if f.IsMapped() && f.ReadsColumn() && !slices.Contains(out, f.SourceColumn) {
			out = append(out, f.SourceColumn)
		}
	}

	return out
}

// AvailableFieldsFor returns the columns a rule on id may read: every mapped
// source column except id's own.
func (s Set) AvailableFieldsFor(id ontology.FieldID) []string {
	own := ""
	if f, ok := s.Get(id); ok && f.ReadsColumn() {
		own = f.SourceColumn
	}

	var out []string

	for _, col := range s.MappedColumns() {
		if col != own {
			out = append(out, col)
		}
	}

	return out
}
