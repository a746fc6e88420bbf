package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluate applies r to one row. The rule must be structurally valid;
// evaluating a rule that Validate would reject returns ErrInvalidRule.
// Field availability is not rechecked here: a column missing from the row
// reads as an empty string.
func Evaluate(r Rule, row map[string]string) (Result, error) {
	if errs := structure(r); len(errs) > 0 {
		return Result{Condition: -1}, fmt.Errorf("%w: %s", ErrInvalidRule, errs[0].Message)
	}

	switch rule := r.(type) {
	case Lookup:
		return evaluateLookup(rule, row), nil
	case Conditional:
		return evaluateConditional(rule, row), nil
	default:
		return Result{Condition: -1}, fmt.Errorf("%w: unsupported rule kind %q", ErrInvalidRule, r.Kind())
	}
}

func evaluateLookup(l Lookup, row map[string]string) Result {
	key := strings.TrimSpace(row[l.SourceField])
	if v, ok := l.Table[key]; ok {
		return Result{Value: v, Outcome: OutcomeMatched, Condition: -1}
	}

	return fallback(l.Default)
}

func evaluateConditional(c Conditional, row map[string]string) Result {
	for i, cond := range c.Conditions {
		if cond.Matches(row) {
			return Result{Value: cond.Result, Outcome: OutcomeMatched, Condition: i, Label: cond.Label}
		}
	}

	return fallback(c.Default)
}

func fallback(def any) Result {
	if hasDefault(def) {
		return Result{Value: def, Outcome: OutcomeDefaulted, Condition: -1}
	}

	return Result{Outcome: OutcomeUnmatched, Condition: -1}
}

// Matches reports whether the condition holds for row. Equality is exact on
// trimmed strings; numeric comparisons are false when either side does not
// parse; text operators ignore case.
func (c Condition) Matches(row map[string]string) bool {
	actual := strings.TrimSpace(row[c.Field])
	expected := strings.TrimSpace(c.Value)

	switch c.Operator {
	case OpEquals:
		return actual == expected
	case OpNotEquals:
		return actual != expected
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return compareNumbers(c.Operator, actual, expected)
	case OpContains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(actual), strings.ToLower(expected))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(actual), strings.ToLower(expected))
	default:
		return false
	}
}

func compareNumbers(op Operator, actual, expected string) bool {
	a, err := strconv.ParseFloat(actual, 64)
	if err != nil {
		return false
	}

	b, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return false
	}

	switch op {
	case OpGreaterThan:
		return a > b
	case OpLessThan:
		return a < b
	case OpGreaterThanOrEqual:
		return a >= b
	case OpLessThanOrEqual:
		return a <= b
	default:
		return false
	}
}
