package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoding(t *testing.T) {
	tcs := map[string]struct {
		literal  string
		expected *Coding
		wantErr  bool
	}{
		"empty": {literal: "", expected: nil},
		"single pair": {
			literal:  "1=yes",
			expected: &Coding{Levels: []Level{{Code: "1", Label: "yes"}}},
		},
		"several pairs": {
			literal: "4=four;6=six;8=eight",
			expected: &Coding{Levels: []Level{
				{Code: "4", Label: "four"},
				{Code: "6", Label: "six"},
				{Code: "8", Label: "eight"},
			}},
		},
		"missing separator": {literal: "4four", wantErr: true},
		"empty code":        {literal: "=four", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCoding(tc.literal)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedCoding)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCodingRoundTrip(t *testing.T) {
	coding := &Coding{Levels: []Level{
		{Code: "4", Label: "four"},
		{Code: "6", Label: "six"},
	}}
	parsed, err := ParseCoding(coding.String())
	require.NoError(t, err)
	assert.Equal(t, coding, parsed)
}

func TestCodingLabel(t *testing.T) {
	coding := &Coding{Levels: []Level{{Code: "4", Label: "four"}}}

	label, ok := coding.Label("4")
	assert.True(t, ok)
	assert.Equal(t, "four", label)

	_, ok = coding.Label("10")
	assert.False(t, ok)

	var empty *Coding
	_, ok = empty.Label("4")
	assert.False(t, ok)
	assert.True(t, empty.Empty())
	assert.Equal(t, "", empty.String())
}

func TestTableValidate(t *testing.T) {
	tcs := map[string]struct {
		table    Table
		expected error
	}{
		"valid": {
			table: Table{Variables: []Variable{{Name: "a"}, {Name: "b"}}},
		},
		"empty name": {
			table:    Table{Variables: []Variable{{Name: ""}}},
			expected: ErrEmptyVariableName,
		},
		"duplicate name": {
			table:    Table{Variables: []Variable{{Name: "a"}, {Name: "a"}}},
			expected: ErrDuplicateVariableName,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			err := tc.table.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)

				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestSynthesize(t *testing.T) {
	tbl := Synthesize([]string{"x", "y"})
	assert.Equal(t, []string{"x", "y"}, tbl.Names())
	for _, variable := range tbl.Variables {
		assert.False(t, variable.Dropped)
		assert.Empty(t, variable.Title)
		assert.Empty(t, variable.Description)
		assert.Nil(t, variable.Coding)
	}
}

func TestTableClone(t *testing.T) {
	tbl := Table{Variables: []Variable{
		{
			Name:   "a",
			Coding: &Coding{Levels: []Level{{Code: "1", Label: "one"}}},
			Extra:  map[string]string{"note": "keep"},
		},
	}}

	clone := tbl.Clone()
	require.Equal(t, tbl, clone)

	clone.Variables[0].Coding.Levels[0].Label = "changed"
	clone.Variables[0].Extra["note"] = "changed"
	assert.Equal(t, "one", tbl.Variables[0].Coding.Levels[0].Label)
	assert.Equal(t, "keep", tbl.Variables[0].Extra["note"])
}

func TestTableFind(t *testing.T) {
	tbl := Table{Variables: []Variable{{Name: "a", Title: "A"}}}

	variable, ok := tbl.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "A", variable.Title)

	_, ok = tbl.Find("missing")
	assert.False(t, ok)
}
