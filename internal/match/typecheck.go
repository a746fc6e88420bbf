package match

import (
	"regexp"
	"strings"

	"ontomap/internal/ontology"
	"ontomap/internal/transform"
)

// MinTypeRatio is the share of non-empty samples that must fit the data type.
const MinTypeRatio = 0.7

var booleanTokens = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"y": true, "n": true,
	"t": true, "f": true,
	"1": true, "0": true,
}

var (
	compactDateRe = regexp.MustCompile(`^\d{8}$`)
	usDateRe      = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	trailingUnit  = regexp.MustCompile(`^[-+]?[\d.,$€£¥₹\s]*\d\s*([A-Za-z]+\.?)$`)
)

// TypeCheck is the outcome of checking sample values against a data type.
type TypeCheck struct {
	DataType ontology.DataType `json:"data_type"`
	// Checked is the number of non-empty samples.
	Checked int `json:"checked"`
	// Passed is the number of samples that fit DataType.
	Passed int `json:"passed"`
	// Valid is true when Passed/Checked exceeds MinTypeRatio, or when
	// nothing could be checked.
	Valid bool `json:"valid"`
	// Suggested are transformations that would clean the values up.
	Suggested []transform.Transformation `json:"-"`
}

// Ratio returns Passed/Checked, or 1 when no value was checked.
func (tc TypeCheck) Ratio() float64 {
	if tc.Checked == 0 {
		return 1
	}

	return float64(tc.Passed) / float64(tc.Checked)
}

// CheckValues validates raw sample values against dt. Empty values are skipped.
func CheckValues(values []string, dt ontology.DataType) TypeCheck {
	tc := TypeCheck{DataType: dt}

	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}

		tc.Checked++

		if fits(v, dt) {
			tc.Passed++
		}
	}

	tc.Valid = tc.Checked == 0 || tc.Ratio() > MinTypeRatio
	tc.Suggested = suggestTransformations(values, dt)

	return tc
}

func fits(v string, dt ontology.DataType) bool {
	switch dt {
	case ontology.TypeNumber:
		_, ok := transform.ParseNumberString(v)

		return ok
	case ontology.TypeBoolean:
		return booleanTokens[strings.ToLower(v)]
	case ontology.TypeDate:
		_, ok := transform.ParseDateGeneric(v)

		return ok
	default:
		return true
	}
}

// suggestTransformations proposes a cleanup chain for the sample values.
// Order: trim, unit removal, then the type-specific parse.
func suggestTransformations(values []string, dt ontology.DataType) []transform.Transformation {
	var (
		out       []transform.Transformation
		padded    bool
		currency  bool
		compact   bool
		usDate    bool
		units     []string
		seenUnits = map[string]bool{}
		nonBlank  int
	)

	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}

		nonBlank++

		if v != raw {
			padded = true
		}

		switch dt {
		case ontology.TypeNumber:
			if transform.HasCurrencySymbol(v) || strings.Contains(v, ",") {
				currency = true
			}

			if m := trailingUnit.FindStringSubmatch(v); m != nil {
				u := strings.ToLower(m[1])
				if !seenUnits[u] {
					seenUnits[u] = true
					units = append(units, u)
				}
			}
		case ontology.TypeDate:
			switch {
			case compactDateRe.MatchString(v):
				compact = true
			case usDateRe.MatchString(v):
				usDate = true
			}
		}
	}

	if nonBlank == 0 {
		return nil
	}

	if padded {
		out = append(out, transform.Trim{})
	}

	if len(units) > 0 {
		out = append(out, transform.RemoveUnits{Units: units})
	}

	if currency || (len(units) > 0 && dt == ontology.TypeNumber) {
		out = append(out, transform.ParseNumber{})
	}

	switch {
	case compact && !usDate:
		out = append(out, transform.ParseDate{InputFormat: "YYYYMMDD", OutputFormat: "YYYY-MM-DD"})
	case usDate && !compact:
		out = append(out, transform.ParseDate{InputFormat: "MM/DD/YYYY", OutputFormat: "YYYY-MM-DD"})
	}

	return out
}
