package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tr      Transformation
		wantErr bool
	}{
		{"trim", Trim{}, false},
		{"parse number", ParseNumber{}, false},
		{"parse date no format", ParseDate{}, false},
		{"parse date valid format", ParseDate{InputFormat: "YYYYMMDD"}, false},
		{"parse date format without tokens", ParseDate{InputFormat: "date"}, true},
		{"parse date output without tokens", ParseDate{OutputFormat: "iso"}, true},
		{"remove units empty", RemoveUnits{}, true},
		{"remove units blank", RemoveUnits{Units: []string{" "}}, true},
		{"remove units ok", RemoveUnits{Units: []string{"kg"}}, false},
		{"replace empty find", ReplaceText{Replace: "x"}, true},
		{"replace bad regex", ReplaceText{Find: "([", UseRegex: true}, true},
		{"replace bad pattern as literal", ReplaceText{Find: "(["}, false},
		{"default blank", DefaultValue{Value: "  "}, true},
		{"default ok", DefaultValue{Value: "0"}, false},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tr)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransformation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAll_ReportsPosition(t *testing.T) {
	err := ValidateAll([]Transformation{Trim{}, RemoveUnits{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#2")
}

func TestDefRoundTrip(t *testing.T) {
	chain := []Transformation{
		Trim{},
		Uppercase{},
		Lowercase{},
		ParseDate{InputFormat: "YYYYMMDD", OutputFormat: "YYYY-MM-DD"},
		ParseNumber{},
		RemoveUnits{Units: []string{"kg"}},
		ReplaceText{Find: "a", Replace: "b", CaseSensitive: true, UseRegex: true},
		DefaultValue{Value: "0"},
	}

	back, err := FromDefs(ToDefs(chain))
	require.NoError(t, err)
	assert.Equal(t, chain, back)

	_, err = FromDef(Def{Type: "formula"})
	assert.ErrorIs(t, err, ErrInvalidTransformation)
}
