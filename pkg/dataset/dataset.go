package dataset

import (
	"time"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
)

// ReferenceTimeAttribute is the global attribute naming the absolute instant
// that lead-time offsets are measured from.
const ReferenceTimeAttribute = "forecast_reference_time"

// referenceTimeLayouts are the accepted textual forms for the reference time.
var referenceTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Array holds a variable's materialized numeric data. Mask marks elements
// that are missing, independent of the raw value at that position.
type Array struct {
	Values []float64
	Mask   []bool
}

// Len returns the number of elements.
func (a Array) Len() int { return len(a.Values) }

// Masked reports whether element i carries the missing marker.
func (a Array) Masked(i int) bool {
	return i < len(a.Mask) && a.Mask[i]
}

// AnyMasked reports whether any element is missing.
func (a Array) AnyMasked() bool {
	for _, m := range a.Mask {
		if m {
			return true
		}
	}
	return false
}

// Min returns the smallest unmasked value. ok is false for an array with no
// unmasked elements.
func (a Array) Min() (min float64, ok bool) {
	for i, v := range a.Values {
		if a.Masked(i) {
			continue
		}
		if !ok || v < min {
			min, ok = v, true
		}
	}
	return min, ok
}

// Max returns the largest unmasked value. ok is false for an array with no
// unmasked elements.
func (a Array) Max() (max float64, ok bool) {
	for i, v := range a.Values {
		if a.Masked(i) {
			continue
		}
		if !ok || v > max {
			max, ok = v, true
		}
	}
	return max, ok
}

// Variable is a named numeric array with an ordered dimension list and its
// own attribute set.
type Variable struct {
	name      string
	attrNames []string
	attrs     map[string]any
	dims      []string
	data      Array
}

// NewVariable constructs a variable. The dimension order is preserved.
func NewVariable(name string, dims []string, data Array) *Variable {
	return &Variable{
		name:  name,
		attrs: make(map[string]any),
		dims:  dims,
		data:  data,
	}
}

// SetAttr sets an attribute, preserving first-set order for enumeration.
func (v *Variable) SetAttr(name string, value any) {
	if _, ok := v.attrs[name]; !ok {
		v.attrNames = append(v.attrNames, name)
	}
	v.attrs[name] = value
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Attrs returns attribute names in declaration order.
func (v *Variable) Attrs() []string { return v.attrNames }

// Attr looks up a single attribute.
func (v *Variable) Attr(name string) (any, bool) {
	value, ok := v.attrs[name]
	return value, ok
}

// Dimensions returns the ordered dimension names.
func (v *Variable) Dimensions() []string { return v.dims }

// Data returns the materialized array.
func (v *Variable) Data() Array { return v.data }

// Dataset is an in-memory handle to a structured, multi-dimensional data
// file. It is constructed once by a loader and treated as read-only by the
// validation engine.
type Dataset struct {
	attrNames []string
	attrs     map[string]any
	varNames  []string
	vars      map[string]*Variable
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		attrs: make(map[string]any),
		vars:  make(map[string]*Variable),
	}
}

// SetGlobalAttr sets a global attribute, preserving first-set order.
func (d *Dataset) SetGlobalAttr(name string, value any) {
	if _, ok := d.attrs[name]; !ok {
		d.attrNames = append(d.attrNames, name)
	}
	d.attrs[name] = value
}

// AddVariable registers a variable. Re-adding a name replaces the variable
// but keeps its original position.
func (d *Dataset) AddVariable(v *Variable) {
	if _, ok := d.vars[v.name]; !ok {
		d.varNames = append(d.varNames, v.name)
	}
	d.vars[v.name] = v
}

// GlobalAttrs returns global attribute names in declaration order.
func (d *Dataset) GlobalAttrs() []string { return d.attrNames }

// GlobalAttr looks up a single global attribute.
func (d *Dataset) GlobalAttr(name string) (any, bool) {
	value, ok := d.attrs[name]
	return value, ok
}

// Variables returns variable names in declaration order.
func (d *Dataset) Variables() []string { return d.varNames }

// Variable looks up a variable by name.
func (d *Dataset) Variable(name string) (*Variable, bool) {
	v, ok := d.vars[name]
	return v, ok
}

// HasVariable reports whether a variable exists.
func (d *Dataset) HasVariable(name string) bool {
	_, ok := d.vars[name]
	return ok
}

// ReferenceTime parses the forecast reference time global attribute.
func (d *Dataset) ReferenceTime() (time.Time, error) {
	raw, ok := d.GlobalAttr(ReferenceTimeAttribute)
	if !ok {
		return time.Time{}, ncqcerrors.New(ncqcerrors.ErrCodeNotFound,
			"global attribute "+ReferenceTimeAttribute+" not present")
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput,
			"global attribute "+ReferenceTimeAttribute+" is not a string")
	}
	var lastErr error
	for _, layout := range referenceTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
		"cannot parse "+ReferenceTimeAttribute, lastErr)
}
