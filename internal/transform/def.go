package transform

import "fmt"

// Def is the serialized form of a transformation, shared by the YAML
// mapping profile and the JSON HTTP payloads. Only the fields relevant to
// Type are populated.
type Def struct {
	Type          Kind     `yaml:"type" json:"type"`
	InputFormat   string   `yaml:"input_format,omitempty" json:"input_format,omitempty"`
	OutputFormat  string   `yaml:"output_format,omitempty" json:"output_format,omitempty"`
	Units         []string `yaml:"units,omitempty" json:"units,omitempty"`
	Find          string   `yaml:"find,omitempty" json:"find,omitempty"`
	Replace       string   `yaml:"replace,omitempty" json:"replace,omitempty"`
	CaseSensitive bool     `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
	UseRegex      bool     `yaml:"use_regex,omitempty" json:"use_regex,omitempty"`
	Value         string   `yaml:"value,omitempty" json:"value,omitempty"`
}

// ToDef converts a transformation to its serialized form.
func ToDef(t Transformation) Def {
	switch v := t.(type) {
	case ParseDate:
		return Def{Type: KindParseDate, InputFormat: v.InputFormat, OutputFormat: v.OutputFormat}
	case RemoveUnits:
		return Def{Type: KindRemoveUnits, Units: append([]string(nil), v.Units...)}
	case ReplaceText:
		return Def{Type: KindReplaceText, Find: v.Find, Replace: v.Replace, CaseSensitive: v.CaseSensitive, UseRegex: v.UseRegex}
	case DefaultValue:
		return Def{Type: KindDefaultValue, Value: v.Value}
	default:
		return Def{Type: t.Kind()}
	}
}

// FromDef converts a serialized transformation back to its typed variant.
func FromDef(d Def) (Transformation, error) {
	switch d.Type {
	case KindTrim:
		return Trim{}, nil
	case KindUppercase:
		return Uppercase{}, nil
	case KindLowercase:
		return Lowercase{}, nil
	case KindParseDate:
		return ParseDate{InputFormat: d.InputFormat, OutputFormat: d.OutputFormat}, nil
	case KindParseNumber:
		return ParseNumber{}, nil
	case KindRemoveUnits:
		return RemoveUnits{Units: append([]string(nil), d.Units...)}, nil
	case KindReplaceText:
		return ReplaceText{Find: d.Find, Replace: d.Replace, CaseSensitive: d.CaseSensitive, UseRegex: d.UseRegex}, nil
	case KindDefaultValue:
		return DefaultValue{Value: d.Value}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidTransformation, d.Type)
	}
}

// ToDefs converts a sequence, preserving order.
func ToDefs(ts []Transformation) []Def {
	if len(ts) == 0 {
		return nil
	}

	out := make([]Def, len(ts))
	for i, t := range ts {
		out[i] = ToDef(t)
	}

	return out
}

// FromDefs converts a sequence, preserving order.
func FromDefs(ds []Def) ([]Transformation, error) {
	if len(ds) == 0 {
		return nil, nil
	}

	out := make([]Transformation, len(ds))

	for i, d := range ds {
		t, err := FromDef(d)
		if err != nil {
			return nil, fmt.Errorf("transformation #%d: %w", i+1, err)
		}

		out[i] = t
	}

	return out, nil
}
