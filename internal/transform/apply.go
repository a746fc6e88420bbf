package transform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Apply runs a single transformation.
func Apply(v any, t Transformation) any {
	if t == nil {
		return v
	}

	return t.apply(v)
}

// ApplyAll folds the transformations over the value, left to right.
func ApplyAll(v any, ts []Transformation) any {
	for _, t := range ts {
		v = Apply(v, t)
	}

	return v
}

// String operations leave non-text values (numbers, dates) untouched.
func (Trim) apply(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}

	return v
}

func (Uppercase) apply(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s)
	}

	return v
}

func (Lowercase) apply(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}

	return v
}

func (t ParseDate) apply(v any) any {
	if v == nil {
		return nil
	}

	s := strings.TrimSpace(ToString(v))
	if s == "" {
		return nil
	}

	var (
		ts      time.Time
		hasTime bool
		ok      bool
	)

	if t.InputFormat != "" {
		ts, ok = parseWithFormat(s, t.InputFormat)
		hasTime = strings.Contains(t.InputFormat, "HH")
	} else {
		ts, ok = ParseDateGeneric(s)
		hasTime = ok && (ts.Hour() != 0 || ts.Minute() != 0 || ts.Second() != 0)
	}

	if !ok {
		return nil
	}

	out := t.OutputFormat
	if out == "" {
		out = "YYYY-MM-DD"
		if hasTime {
			out = "YYYY-MM-DDTHH:mm:ss"
		}
	}

	return FormatDate(ts, out)
}

func (ParseNumber) apply(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return val
	case int:
		return float64(val)
	}

	f, ok := ParseNumberString(ToString(v))
	if !ok {
		return nil
	}

	return f
}

func (t RemoveUnits) apply(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	for _, unit := range t.Units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}

		re := regexp.MustCompile(`(?i)\s*` + regexp.QuoteMeta(unit) + `$`)
		s = re.ReplaceAllString(s, "")
	}

	return s
}

func (t ReplaceText) apply(v any) any {
	if v == nil || t.Find == "" {
		return v
	}

	s := ToString(v)

	if t.UseRegex {
		pattern := t.Find
		if !t.CaseSensitive {
			pattern = "(?i)" + pattern
		}

		if re, err := regexp.Compile(pattern); err == nil {
			return re.ReplaceAllString(s, t.Replace)
		}
		// fall through to literal replacement
	}

	if t.CaseSensitive {
		return strings.ReplaceAll(s, t.Find, t.Replace)
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(t.Find))

	return re.ReplaceAllLiteralString(s, t.Replace)
}

func (t DefaultValue) apply(v any) any {
	if IsBlank(v) {
		return t.Value
	}

	return v
}

// ParseNumberString parses a numeric cell after removing currency symbols,
// thousands separators and whitespace.
func ParseNumberString(s string) (float64, bool) {
	cleaned := stripNumberNoise(s)
	if !decimalNumber.MatchString(cleaned) {
		return 0, false
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// HasCurrencySymbol reports whether s contains a currency symbol.
func HasCurrencySymbol(s string) bool {
	return strings.ContainsAny(s, currencySymbols)
}

const currencySymbols = "$€£¥₹"

// decimalNumber rejects the NaN, Inf and hex forms strconv would accept.
var decimalNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

func stripNumberNoise(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == ',' || strings.ContainsRune(currencySymbols, r) || unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

func isBlankString(s string) bool {
	return strings.TrimSpace(s) == ""
}

// genericLayouts are tried in order when no input format is configured.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDateGeneric tries a fixed list of common layouts.
func ParseDateGeneric(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range genericLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// dateTokens lists format tokens longest first so "YYYY" wins over shorter prefixes.
var dateTokens = []string{"YYYY", "MM", "DD", "HH", "mm", "ss"}

// parseWithFormat matches s against a literal token format such as "YYYYMMDD"
// or "DD.MM.YYYY HH:mm". It rejects impossible calendar dates.
func parseWithFormat(s, format string) (time.Time, bool) {
	re, order, err := compileFormat(format)
	if err != nil {
		return time.Time{}, false
	}

	m := re.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	parts := map[string]int{"MM": 1, "DD": 1}

	for i, tok := range order {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}

		parts[tok] = n
	}

	year, month, day := parts["YYYY"], parts["MM"], parts["DD"]
	hour, minute, sec := parts["HH"], parts["mm"], parts["ss"]

	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	// time.Date normalizes Feb 30 into March; a changed day means the date was invalid.
	if ts.Day() != day || int(ts.Month()) != month {
		return time.Time{}, false
	}

	return ts, true
}

// compileFormat turns a token format into an anchored regular expression and
// the order in which tokens appear.
func compileFormat(format string) (*regexp.Regexp, []string, error) {
	var (
		b     strings.Builder
		order []string
	)

	b.WriteString("^")

	for i := 0; i < len(format); {
		matched := false

		for _, tok := range dateTokens {
			if strings.HasPrefix(format[i:], tok) {
				width := 2
				if tok == "YYYY" {
					width = 4
				}

				fmt.Fprintf(&b, `(\d{%d})`, width)
				order = append(order, tok)
				i += len(tok)
				matched = true

				break
			}
		}

		if !matched {
			b.WriteString(regexp.QuoteMeta(format[i : i+1]))
			i++
		}
	}

	b.WriteString("$")

	if len(order) == 0 {
		return nil, nil, fmt.Errorf("%w: date format %q has no tokens", ErrInvalidTransformation, format)
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, err
	}

	return re, order, nil
}

// FormatDate renders ts using YYYY/MM/DD/HH/mm/ss tokens.
func FormatDate(ts time.Time, format string) string {
	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", ts.Year()),
		"MM", fmt.Sprintf("%02d", int(ts.Month())),
		"DD", fmt.Sprintf("%02d", ts.Day()),
		"HH", fmt.Sprintf("%02d", ts.Hour()),
		"mm", fmt.Sprintf("%02d", ts.Minute()),
		"ss", fmt.Sprintf("%02d", ts.Second()),
	)

	return r.Replace(format)
}
