package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
)

const sampleDoc = `
required_global_attributes: [source, frequency, creation_date]
allowed_dimensions: [latitude, longitude]
frequency: [day, month]
creation_date:
  pattern: "\\d{4}-\\d{2}-\\d{2}"
temperature:
  required_range: [200, 330]
  required_attributes: [units, standard_name]
  dimensions: [time, latitude, longitude]
  cell_methods: "time: mean"
  units: K
  frequency: day
  bounds: time_bnds
height:
  required_values: [10, 50, 100]
  required_min_max: [10, 100]
  required_intervals: 10
time:
  required_intervals:
    time: month
    step_check: 6
`

func TestParse_ReservedKeys(t *testing.T) {
	s, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"source", "frequency", "creation_date"}, s.RequiredGlobals)
	assert.True(t, s.RequiresGlobal("frequency"))
	assert.False(t, s.RequiresGlobal("units"))
	assert.True(t, s.AllowedDimensions["latitude"])
	assert.True(t, s.AllowedDimensions["longitude"])
	assert.False(t, s.AllowedDimensions["time"])

	// Reserved keys never become rules.
	_, ok := s.VariableRule("allowed_dimensions")
	assert.False(t, ok)
	_, ok = s.GlobalRule("required_global_attributes")
	assert.False(t, ok)
}

func TestParse_GlobalRules(t *testing.T) {
	s, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	freq, ok := s.GlobalRule("frequency")
	require.True(t, ok)
	assert.Equal(t, GlobalAllowedValues, freq.Kind)
	assert.Equal(t, []any{"day", "month"}, freq.Allowed)

	created, ok := s.GlobalRule("creation_date")
	require.True(t, ok)
	assert.Equal(t, GlobalObject, created.Kind)
	require.Len(t, created.Checks, 1)
	assert.Equal(t, "pattern", created.Checks[0].Name)
	assert.Equal(t, `\d{4}-\d{2}-\d{2}`, created.Checks[0].Value)
}

func TestParse_ScalarEntryIsUndefined(t *testing.T) {
	s, err := Parse([]byte("institution: 42\n"))
	require.NoError(t, err)

	rule, ok := s.GlobalRule("institution")
	require.True(t, ok)
	assert.Equal(t, GlobalUndefined, rule.Kind)

	// A scalar entry is never a variable rule.
	_, ok = s.VariableRule("institution")
	assert.False(t, ok)
}

func TestParse_VariableConstraints(t *testing.T) {
	s, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	rule, ok := s.VariableRule("temperature")
	require.True(t, ok)
	require.Len(t, rule.Constraints, 7)

	assert.Equal(t, RequiredRange{Min: 200, Max: 330}, rule.Constraints[0])
	assert.Equal(t, RequiredAttributes{Names: []string{"units", "standard_name"}}, rule.Constraints[1])
	assert.Equal(t, Dimensions{Names: []string{"time", "latitude", "longitude"}}, rule.Constraints[2])
	assert.Equal(t, CellMethods{Pattern: "time: mean"}, rule.Constraints[3])

	// units is not a required global, so it constrains the variable's own
	// attribute; frequency is, so it cross-checks the dataset global.
	assert.Equal(t, AttrEquals{Name: "units", Expected: "K"}, rule.Constraints[4])
	assert.Equal(t, GlobalEquals{Name: "frequency", Expected: "day"}, rule.Constraints[5])

	// Scalar bounds form normalizes to a one-element list.
	assert.Equal(t, Bounds{Names: []string{"time_bnds"}}, rule.Constraints[6])
}

func TestParse_Intervals(t *testing.T) {
	s, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	height, ok := s.VariableRule("height")
	require.True(t, ok)
	require.Len(t, height.Constraints, 3)
	assert.Equal(t, RequiredValues{Values: []float64{10, 50, 100}}, height.Constraints[0])
	assert.Equal(t, RequiredMinMax{Min: 10, Max: 100}, height.Constraints[1])

	bare, ok := height.Constraints[2].(RequiredIntervals)
	require.True(t, ok)
	require.NotNil(t, bare.Bare)
	assert.Equal(t, float64(10), *bare.Bare)

	tv, ok := s.VariableRule("time")
	require.True(t, ok)
	comp, ok := tv.Constraints[0].(RequiredIntervals)
	require.True(t, ok)
	assert.Nil(t, comp.Bare)
	require.Len(t, comp.Companions, 2)
	assert.Equal(t, CompanionStep{Variable: "time", Keyword: "month"}, comp.Companions[0])
	assert.Equal(t, CompanionStep{Variable: "step_check", Step: 6}, comp.Companions[1])
}

func TestParse_UnrecognizedRequiredKey(t *testing.T) {
	s, err := Parse([]byte(`
temperature:
  required_foobar: whatever
`))
	require.NoError(t, err)

	rule, ok := s.VariableRule("temperature")
	require.True(t, ok)
	require.Len(t, rule.Constraints, 1)
	assert.Equal(t, Unimplemented{Name: "required_foobar"}, rule.Constraints[0])
	assert.Equal(t, "required_foobar", rule.Constraints[0].Key())
}

func TestParse_JSONDocument(t *testing.T) {
	s, err := Parse([]byte(`{
  "required_global_attributes": ["source"],
  "temperature": {"required_range": [200, 330]}
}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"source"}, s.RequiredGlobals)
	rule, ok := s.VariableRule("temperature")
	require.True(t, ok)
	assert.Equal(t, RequiredRange{Min: 200, Max: 330}, rule.Constraints[0])
}

func TestParse_DeclarationOrderPreserved(t *testing.T) {
	s, err := Parse([]byte(`
zulu: {}
alpha: {}
mike: {}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, s.VariableNames())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"empty document", ""},
		{"bad required globals", "required_global_attributes: 7\n"},
		{"bad allowed dimensions", "allowed_dimensions: {a: 1}\n"},
		{"bad range arity", "temperature:\n  required_range: [1, 2, 3]\n"},
		{"bad values", "temperature:\n  required_values: {a: 1}\n"},
		{"bad intervals entry", "temperature:\n  required_intervals:\n    time: [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, ncqcerrors.ErrCodeMalformedInput, ncqcerrors.CodeOf(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Equal(t, ncqcerrors.ErrCodeMalformedInput, ncqcerrors.CodeOf(err))
}
