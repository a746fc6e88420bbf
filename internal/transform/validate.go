package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate checks a transformation's configuration before it is accepted
// into a mapping. It never touches data.
func Validate(t Transformation) error {
	if t == nil {
		return fmt.Errorf("%w: nil transformation", ErrInvalidTransformation)
	}

	return t.validate()
}

// ValidateAll validates every transformation and reports the first failure with its position.
func ValidateAll(ts []Transformation) error {
	for i, t := range ts {
		if err := Validate(t); err != nil {
			return fmt.Errorf("transformation #%d: %w", i+1, err)
		}
	}

	return nil
}

func (Trim) validate() error        { return nil }
func (Uppercase) validate() error   { return nil }
func (Lowercase) validate() error   { return nil }
func (ParseNumber) validate() error { return nil }

func (t ParseDate) validate() error {
	if t.InputFormat != "" {
		if _, _, err := compileFormat(t.InputFormat); err != nil {
			return fmt.Errorf("%w: parseDate input format %q: %v", ErrInvalidTransformation, t.InputFormat, err)
		}
	}

	if t.OutputFormat != "" && !containsToken(t.OutputFormat) {
		return fmt.Errorf("%w: parseDate output format %q has no date tokens", ErrInvalidTransformation, t.OutputFormat)
	}

	return nil
}

func (t RemoveUnits) validate() error {
	for _, u := range t.Units {
		if strings.TrimSpace(u) != "" {
			return nil
		}
	}

	return fmt.Errorf("%w: removeUnits requires at least one unit", ErrInvalidTransformation)
}

func (t ReplaceText) validate() error {
	if t.Find == "" {
		return fmt.Errorf("%w: replaceText requires a non-empty find value", ErrInvalidTransformation)
	}

	if t.UseRegex {
		if _, err := regexp.Compile(t.Find); err != nil {
			return fmt.Errorf("%w: replaceText pattern %q does not compile: %v", ErrInvalidTransformation, t.Find, err)
		}
	}

	return nil
}

func (t DefaultValue) validate() error {
	if strings.TrimSpace(t.Value) == "" {
		return fmt.Errorf("%w: defaultValue requires a non-empty value", ErrInvalidTransformation)
	}

	return nil
}

func containsToken(format string) bool {
	for _, tok := range dateTokens {
		if strings.Contains(format, tok) {
			return true
		}
	}

	return false
}
