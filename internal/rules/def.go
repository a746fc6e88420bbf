package rules

import (
	"fmt"
	"strings"

	"ontomap/internal/transform"
)

// Def is the serialised form of a rule in a mapping profile.
type Def struct {
	Type        Kind           `yaml:"type" json:"type"`
	SourceField string         `yaml:"source_field,omitempty" json:"source_field,omitempty"`
	Table       map[string]any `yaml:"table,omitempty" json:"table,omitempty"`
	Conditions  []ConditionDef `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Default     any            `yaml:"default,omitempty" json:"default,omitempty"`
	Expression  string         `yaml:"expression,omitempty" json:"expression,omitempty"`
}

// ConditionDef is the serialised form of a Condition. Value accepts any
// scalar so that `value: 100` decodes from both YAML and JSON.
type ConditionDef struct {
	Field    string `yaml:"field" json:"field"`
	Operator string `yaml:"operator" json:"operator"`
	Value    any    `yaml:"value" json:"value"`
	Result   any    `yaml:"result" json:"result"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
}

// FromDef converts a Def to a Rule. Structural checks are left to Validate;
// only unknown or reserved kinds fail here.
func FromDef(d Def) (Rule, error) {
	switch Kind(strings.TrimSpace(string(d.Type))) {
	case KindLookup:
		return Lookup{SourceField: d.SourceField, Table: d.Table, Default: d.Default}, nil
	case KindConditional:
		conds := make([]Condition, 0, len(d.Conditions))
		for _, c := range d.Conditions {
			conds = append(conds, Condition{
				Field:    c.Field,
				Operator: Operator(c.Operator),
				Value:    transform.ToString(c.Value),
				Result:   c.Result,
				Label:    c.Label,
			})
		}

		return Conditional{Conditions: conds, Default: d.Default}, nil
	case KindFormula:
		return nil, fmt.Errorf("%w: formula rules are reserved", ErrUnsupportedRule)
	default:
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrUnsupportedRule, d.Type)
	}
}

// ToDef converts a Rule to its serialised form. A nil rule yields nil.
func ToDef(r Rule) *Def {
	switch rule := r.(type) {
	case Lookup:
		return &Def{Type: KindLookup, SourceField: rule.SourceField, Table: rule.Table, Default: rule.Default}
	case Conditional:
		conds := make([]ConditionDef, 0, len(rule.Conditions))
		for _, c := range rule.Conditions {
			conds = append(conds, ConditionDef{
				Field:    c.Field,
				Operator: string(c.Operator),
				Value:    c.Value,
				Result:   c.Result,
				Label:    c.Label,
			})
		}

		return &Def{Type: KindConditional, Conditions: conds, Default: rule.Default}
	default:
		return nil
	}
}
