package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Severity represents the severity level of an issue.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}

	return nil
}

// Issue is a single validation finding.
type Issue struct {
	// Severity of the issue.
	Severity Severity `json:"severity" yaml:"severity"`
	// Code is a stable identifier for this kind of issue.
	Code string `json:"code" yaml:"code"`
	// Field is the field identifier (entity.property) or source column the issue is about.
	Field string `json:"field" yaml:"field"`
	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
	// AffectedRows lists zero-based sample row indexes, when known.
	AffectedRows []int `json:"affected_rows,omitempty" yaml:"affected_rows,omitempty"`
	// Suggestion is a potential fix.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// String returns a formatted issue string.
func (i Issue) String() string {
	msg := i.Message
	if i.Code != "" {
		msg = fmt.Sprintf("[%s] %s", i.Code, msg)
	}

	if i.Field != "" {
		return i.Field + ": " + msg
	}

	return msg
}

// Diagnostics is an ordered collection of issues.
type Diagnostics struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Add appends an issue.
func (d *Diagnostics) Add(issue Issue) {
	d.Issues = append(d.Issues, issue)
}

// AddError adds an error issue.
func (d *Diagnostics) AddError(code, field, message, suggestion string) {
	d.Add(Issue{Severity: SeverityError, Code: code, Field: field, Message: message, Suggestion: suggestion})
}

// AddWarning adds a warning issue.
func (d *Diagnostics) AddWarning(code, field, message, suggestion string) {
	d.Add(Issue{Severity: SeverityWarning, Code: code, Field: field, Message: message, Suggestion: suggestion})
}

// AddInfo adds an info issue.
func (d *Diagnostics) AddInfo(code, field, message, suggestion string) {
	d.Add(Issue{Severity: SeverityInfo, Code: code, Field: field, Message: message, Suggestion: suggestion})
}

// Merge appends all issues of another collection.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Issues = append(d.Issues, other.Issues...)
}

// Count returns the number of issues with the given severity.
func (d *Diagnostics) Count(sev Severity) int {
	n := 0

	for _, issue := range d.Issues {
		if issue.Severity == sev {
			n++
		}
	}

	return n
}

// Filter returns the issues with the given severity, in order.
func (d *Diagnostics) Filter(sev Severity) []Issue {
	var out []Issue

	for _, issue := range d.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}

	return out
}

// ByCode returns the issues with the given code, in order.
func (d *Diagnostics) ByCode(code string) []Issue {
	var out []Issue

	for _, issue := range d.Issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}

	return out
}

// HasErrors returns true if there are any error issues.
func (d *Diagnostics) HasErrors() bool {
	return d.Count(SeverityError) > 0
}

// IsValid returns true if there are no errors. Warnings do not affect validity.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Error returns a combined error from all error issues, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Filter(SeverityError) {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}
