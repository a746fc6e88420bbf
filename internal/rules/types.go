package rules

import (
	"errors"
	"strings"
)

// Kind names a rule variant.
type Kind string

const (
	KindLookup      Kind = "lookup"
	KindConditional Kind = "conditional"
	// KindFormula is reserved. Formula rules are recognised but never evaluated.
	KindFormula Kind = "formula"
)

var (
	// ErrInvalidRule is returned when a rule that fails structural validation is evaluated.
	ErrInvalidRule = errors.New("invalid business rule")
	// ErrUnsupportedRule is returned when decoding a reserved rule kind.
	ErrUnsupportedRule = errors.New("unsupported business rule")
)

// Rule is a business rule. The interface is sealed; Lookup and Conditional
// are the only implementations.
type Rule interface {
	Kind() Kind
	// References returns the source columns the rule reads, without duplicates.
	References() []string
	sealed()
}

// Lookup maps the trimmed value of SourceField through Table.
type Lookup struct {
	SourceField string
	Table       map[string]any
	// Default is used on a table miss when present and non-empty.
	Default any
}

// Conditional evaluates Conditions in order; the first match wins.
type Conditional struct {
	Conditions []Condition
	// Default is used when no condition matches, when present and non-empty.
	Default any
}

// Condition is a single predicate and the value it produces.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
	Result   any
	Label    string
}

// Kind implements Rule.
func (Lookup) Kind() Kind { return KindLookup }

// Kind implements Rule.
func (Conditional) Kind() Kind { return KindConditional }

// References implements Rule.
func (l Lookup) References() []string {
	if l.SourceField == "" {
		return nil
	}

	return []string{l.SourceField}
}

// References implements Rule.
func (c Conditional) References() []string {
	var (
		out  []string
		seen = map[string]bool{}
	)

	for _, cond := range c.Conditions {
		if cond.Field == "" || seen[cond.Field] {
			continue
		}

		seen[cond.Field] = true
		out = append(out, cond.Field)
	}

	return out
}

func (Lookup) sealed()      {}
func (Conditional) sealed() {}

// Operator is a condition comparison.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "notEquals"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpContains           Operator = "contains"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
)

// IsValid returns true for the nine supported operators.
func (o Operator) IsValid() bool {
	switch o {
	case OpEquals, OpNotEquals,
		OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpContains, OpStartsWith, OpEndsWith:
		return true
	default:
		return false
	}
}

// Outcome is how a row resolved against a rule.
type Outcome int

const (
	OutcomeUnmatched Outcome = iota
	OutcomeMatched
	OutcomeDefaulted
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeDefaulted:
		return "defaulted"
	default:
		return "unmatched"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the value a rule produced for one row.
type Result struct {
	Value   any     `json:"value"`
	Outcome Outcome `json:"outcome"`
	// Condition is the zero-based index of the winning condition, or -1.
	Condition int    `json:"condition"`
	Label     string `json:"label,omitempty"`
}

// Matched reports whether the rule produced a value (matched or defaulted).
func (r Result) Matched() bool {
	return r.Outcome != OutcomeUnmatched
}

// hasDefault reports whether a default value is present and non-empty.
func hasDefault(v any) bool {
	if v == nil {
		return false
	}

	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}

	return true
}
