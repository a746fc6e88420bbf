package rules

import (
	"fmt"
	"slices"
)

// ErrorKind classifies a structural rule error.
type ErrorKind string

const (
	ErrInvalidField    ErrorKind = "invalid_field"
	ErrInvalidOperator ErrorKind = "invalid_operator"
	ErrInvalidShape    ErrorKind = "invalid_rule"
)

// RuleError is a structural problem with a rule, reported as data.
type RuleError struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Field   string    `json:"field,omitempty" yaml:"field,omitempty"`
	Message string    `json:"message" yaml:"message"`
}

// Error implements error so a RuleError can be wrapped when needed.
func (e RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Validate checks r against the set of columns it may read. availableFields
// should be the mapped source columns excluding the rule's own column, so a
// rule that reads its own target is reported as an invalid field.
func Validate(r Rule, availableFields []string) []RuleError {
	errs := structure(r)

	for _, ref := range refsOf(r) {
		if ref == "" || slices.Contains(availableFields, ref) {
			continue
		}

		errs = append(errs, RuleError{
			Kind:    ErrInvalidField,
			Field:   ref,
			Message: fmt.Sprintf("field %q is not a mapped source column", ref),
		})
	}

	return errs
}

// structure reports problems that do not depend on which columns are mapped.
func structure(r Rule) []RuleError {
	var errs []RuleError

	switch rule := r.(type) {
	case nil:
		errs = append(errs, RuleError{Kind: ErrInvalidShape, Message: "rule is empty"})
	case Lookup:
		if rule.SourceField == "" {
			errs = append(errs, RuleError{Kind: ErrInvalidField, Message: "lookup requires a source field"})
		}
	case Conditional:
		if len(rule.Conditions) == 0 {
			errs = append(errs, RuleError{Kind: ErrInvalidShape, Message: "conditional requires at least one condition"})
		}

		for i, c := range rule.Conditions {
			if c.Field == "" {
				errs = append(errs, RuleError{
					Kind:    ErrInvalidField,
					Message: fmt.Sprintf("condition #%d has no field", i+1),
				})
			}

			if !c.Operator.IsValid() {
				errs = append(errs, RuleError{
					Kind:    ErrInvalidOperator,
					Field:   c.Field,
					Message: fmt.Sprintf("condition #%d has unknown operator %q", i+1, c.Operator),
				})
			}
		}
	default:
		errs = append(errs, RuleError{Kind: ErrInvalidShape, Message: fmt.Sprintf("unsupported rule kind %q", r.Kind())})
	}

	return errs
}

func refsOf(r Rule) []string {
	if r == nil {
		return nil
	}

	return r.References()
}
