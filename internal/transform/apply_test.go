package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_StringOps(t *testing.T) {
	tests := []struct {
		name string
		in   any
		tr   Transformation
		want any
	}{
		{"trim", "  WO-1 \t", Trim{}, "WO-1"},
		{"uppercase", "night", Uppercase{}, "NIGHT"},
		{"lowercase", "NIGHT", Lowercase{}, "night"},
		{"trim keeps numbers", 2.5, Trim{}, 2.5},
		{"trim keeps null", nil, Trim{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.in, tt.tr))
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	values := []any{"  mixed Case  ", "ALREADY", "lower", "", nil, 42.0}
	chains := [][]Transformation{
		{Trim{}},
		{Uppercase{}},
		{Lowercase{}},
		{Trim{}, Lowercase{}},
	}

	for _, chain := range chains {
		for _, v := range values {
			once := ApplyAll(v, chain)
			twice := ApplyAll(once, chain)
			assert.Equal(t, once, twice, "chain %v on %v", chain, v)
		}
	}
}

func TestApply_ParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		tr   ParseDate
		want any
	}{
		{"compact format", "20240105", ParseDate{InputFormat: "YYYYMMDD"}, "2024-01-05"},
		{"custom output", "20240105", ParseDate{InputFormat: "YYYYMMDD", OutputFormat: "MM/DD/YYYY"}, "01/05/2024"},
		{"with time", "05.01.2024 13:45", ParseDate{InputFormat: "DD.MM.YYYY HH:mm"}, "2024-01-05T13:45:00"},
		{"impossible calendar date", "20240230", ParseDate{InputFormat: "YYYYMMDD"}, nil},
		{"month out of range", "20241301", ParseDate{InputFormat: "YYYYMMDD"}, nil},
		{"format mismatch", "2024-01-05", ParseDate{InputFormat: "YYYYMMDD"}, nil},
		{"generic iso", "2024-01-05", ParseDate{}, "2024-01-05"},
		{"generic us", "01/15/2024", ParseDate{}, "2024-01-15"},
		{"generic failure", "next tuesday", ParseDate{}, nil},
		{"blank", "   ", ParseDate{}, nil},
		{"null", nil, ParseDate{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.in, tt.tr))
		})
	}
}

func TestApply_ParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"$1,234.50", 1234.5},
		{"€ 12", 12.0},
		{" -3.25 ", -3.25},
		{"£1 000", 1000.0},
		{"abc", nil},
		{"", nil},
		{nil, nil},
		{7.5, 7.5},
		{"1e3", 1000.0},
		{".5", 0.5},
		{"nan", nil},
		{"NaN", nil},
		{"Inf", nil},
		{"-infinity", nil},
		{"0x1p-2", nil},
		{"1e999", nil},
		{"1_000", nil},
	}

	for _, tt := range tests {
		t.Run(ToString(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.in, ParseNumber{}))
		})
	}
}

func TestApply_RemoveUnits(t *testing.T) {
	tr := RemoveUnits{Units: []string{"hrs", "h"}}

	assert.Equal(t, "12.5", Apply("12.5 hrs", tr))
	assert.Equal(t, "12.5", Apply("12.5HRS", tr))
	assert.Equal(t, "4", Apply("4h", tr))
	assert.Equal(t, "hrs 12", Apply("hrs 12", tr), "units are only stripped at the end")
	assert.Equal(t, 3.0, Apply(3.0, tr))
}

func TestApply_ReplaceText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		tr   ReplaceText
		want string
	}{
		{"literal case sensitive", "M-01 m-02", ReplaceText{Find: "M-", Replace: "", CaseSensitive: true}, "01 m-02"},
		{"literal case insensitive", "M-01 m-02", ReplaceText{Find: "m-", Replace: ""}, "01 02"},
		{"regex", "OP 10, OP 20", ReplaceText{Find: `\d+`, Replace: "#", UseRegex: true}, "OP #, OP #"},
		{"regex case insensitive", "Night NIGHT", ReplaceText{Find: "night", Replace: "N", UseRegex: true}, "N N"},
		{"invalid regex falls back to literal", "a([b", ReplaceText{Find: "([", Replace: "X", UseRegex: true}, "aXb"},
		{"literal with regex metacharacters", "1.5.2", ReplaceText{Find: ".", Replace: ","}, "1,5,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.in, tt.tr))
		})
	}
}

func TestApply_DefaultValue(t *testing.T) {
	tr := DefaultValue{Value: "N/A"}

	assert.Equal(t, "N/A", Apply("", tr))
	assert.Equal(t, "N/A", Apply("   ", tr))
	assert.Equal(t, "N/A", Apply(nil, tr))
	assert.Equal(t, "x", Apply("x", tr))
	assert.Equal(t, 0.0, Apply(0.0, tr))
}

func TestApplyAll_Order(t *testing.T) {
	chain := []Transformation{
		Trim{},
		RemoveUnits{Units: []string{"USD"}},
		ParseNumber{},
	}
	assert.Equal(t, 1500.0, ApplyAll(" 1,500 USD ", chain))

	// Parsing before stripping the unit fails and leaves null for later steps.
	reordered := []Transformation{ParseNumber{}, RemoveUnits{Units: []string{"USD"}}, DefaultValue{Value: "0"}}
	assert.Equal(t, "0", ApplyAll("1,500 USD", reordered))
}
