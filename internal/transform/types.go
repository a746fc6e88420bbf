package transform

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind names a transformation variant.
type Kind string

const (
	KindTrim         Kind = "trim"
	KindUppercase    Kind = "uppercase"
	KindLowercase    Kind = "lowercase"
	KindParseDate    Kind = "parseDate"
	KindParseNumber  Kind = "parseNumber"
	KindRemoveUnits  Kind = "removeUnits"
	KindReplaceText  Kind = "replaceText"
	KindDefaultValue Kind = "defaultValue"
)

// ErrInvalidTransformation is wrapped by every Validate failure.
var ErrInvalidTransformation = errors.New("invalid transformation")

// Transformation is a single cleaning step. The interface is sealed; the
// variants in this package are the only implementations.
type Transformation interface {
	Kind() Kind
	apply(v any) any
	validate() error
}

// Trim removes leading and trailing whitespace.
type Trim struct{}

// Uppercase converts to upper case.
type Uppercase struct{}

// Lowercase converts to lower case.
type Lowercase struct{}

// ParseDate parses a date and re-renders it.
// InputFormat and OutputFormat use the tokens YYYY, MM, DD, HH, mm and ss;
// every other character is a literal. Without an InputFormat a list of common
// layouts is tried.
type ParseDate struct {
	InputFormat  string
	OutputFormat string
}

// ParseNumber strips currency symbols, thousands separators and whitespace and
// parses the remainder as a float.
type ParseNumber struct{}

// RemoveUnits strips unit suffixes such as "hrs" or "kg".
type RemoveUnits struct {
	Units []string
}

// ReplaceText replaces every occurrence of Find with Replace.
type ReplaceText struct {
	Find          string
	Replace       string
	CaseSensitive bool
	UseRegex      bool
}

// DefaultValue substitutes Value for null or blank input.
type DefaultValue struct {
	Value string
}

func (Trim) Kind() Kind         { return KindTrim }
func (Uppercase) Kind() Kind    { return KindUppercase }
func (Lowercase) Kind() Kind    { return KindLowercase }
func (ParseDate) Kind() Kind    { return KindParseDate }
func (ParseNumber) Kind() Kind  { return KindParseNumber }
func (RemoveUnits) Kind() Kind  { return KindRemoveUnits }
func (ReplaceText) Kind() Kind  { return KindReplaceText }
func (DefaultValue) Kind() Kind { return KindDefaultValue }

// ToString renders a pipeline value as text. nil renders as "".
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

// IsBlank reports whether a value is null or whitespace-only text.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}

	s, ok := v.(string)

	return ok && isBlankString(s)
}
