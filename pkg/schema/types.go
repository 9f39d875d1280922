package schema

// Schema is the parsed constraint document: the rule set a dataset is
// validated against. Construction happens in Parse; the validation engine
// treats a Schema as immutable.
type Schema struct {
	// RequiredGlobals lists global attribute names that must exist, in
	// declaration order.
	RequiredGlobals []string

	// AllowedDimensions names bare coordinate variables that are tolerated
	// without any per-variable rule.
	AllowedDimensions map[string]bool

	globals  map[string]*GlobalRule
	varOrder []string
	vars     map[string]*VariableRule
}

// RequiresGlobal reports whether name appears in RequiredGlobals.
func (s *Schema) RequiresGlobal(name string) bool {
	for _, g := range s.RequiredGlobals {
		if g == name {
			return true
		}
	}
	return false
}

// GlobalRule returns the top-level constraint entry for a global attribute.
func (s *Schema) GlobalRule(name string) (*GlobalRule, bool) {
	r, ok := s.globals[name]
	return r, ok
}

// VariableRule returns the constraint entry for a variable.
func (s *Schema) VariableRule(name string) (*VariableRule, bool) {
	r, ok := s.vars[name]
	return r, ok
}

// VariableNames returns the names of all per-variable rules in declaration
// order.
func (s *Schema) VariableNames() []string { return s.varOrder }

// GlobalRuleKind discriminates the shape of a top-level global entry.
type GlobalRuleKind int

const (
	// GlobalAllowedValues is a list of allowed literal values.
	GlobalAllowedValues GlobalRuleKind = iota

	// GlobalObject is an object of named sub-checks ("pattern" is the only
	// implemented one; anything else is an unimplemented-check error).
	GlobalObject

	// GlobalUndefined is any other entry shape; it yields a warning.
	GlobalUndefined
)

// GlobalSubCheck is one named sub-check inside an object-form global rule.
type GlobalSubCheck struct {
	Name  string
	Value any
}

// GlobalRule is the constraint on a single global attribute.
type GlobalRule struct {
	Name    string
	Kind    GlobalRuleKind
	Allowed []any            // GlobalAllowedValues
	Checks  []GlobalSubCheck // GlobalObject, in declaration order
}

// VariableRule is the ordered constraint list for one variable.
type VariableRule struct {
	Name        string
	Constraints []Constraint
}

// Constraint is one typed constraint on a variable. The set of variants is
// closed: anything the parser does not recognize under a "required" prefix
// becomes Unimplemented, so unknown constraint kinds fail validation instead
// of being silently skipped.
type Constraint interface {
	// Key returns the schema key the constraint was declared under.
	Key() string

	isConstraint()
}

// RequiredValues demands elementwise equality between the variable's full
// data and an ordered literal list.
type RequiredValues struct {
	Values []float64
}

// RequiredRange demands every element lie within [Min, Max].
type RequiredRange struct {
	Min, Max float64
}

// RequiredMinMax demands the data's extrema equal Min and Max exactly.
type RequiredMinMax struct {
	Min, Max float64
}

// RequiredAttributes demands each named attribute exist on the variable.
type RequiredAttributes struct {
	Names []string
}

// CompanionStep is one entry of the mapping form of required_intervals:
// a companion variable checked at a declared cadence. Exactly one of Step
// and Keyword is meaningful; Keyword holds cadence markers such as "month"
// or "years" (validated at check time so unknown markers abort the run).
type CompanionStep struct {
	Variable string
	Step     float64
	Keyword  string
}

// RequiredIntervals demands a repeating stepsize, either on the variable's
// own data (bare form) or on companion variables at calendar cadences
// (mapping form).
type RequiredIntervals struct {
	Bare       *float64
	Companions []CompanionStep
}

// Bounds demands each named companion variable exist in the dataset.
type Bounds struct {
	Names []string
}

// CellMethods demands the variable's cell_methods attribute match a pattern
// anchored at the start of the string.
type CellMethods struct {
	Pattern string
}

// Dimensions demands the variable's ordered dimension list equal Names.
type Dimensions struct {
	Names []string
}

// GlobalEquals demands the dataset global attribute Name equal Expected
// exactly. Produced when a variable rule names a required global attribute.
type GlobalEquals struct {
	Name     string
	Expected any
}

// AttrEquals demands the variable's own attribute Name equal Expected.
type AttrEquals struct {
	Name     string
	Expected any
}

// Unimplemented is any unrecognized "required*" key. Always an error.
type Unimplemented struct {
	Name string
}

func (RequiredValues) Key() string     { return "required_values" }
func (RequiredRange) Key() string      { return "required_range" }
func (RequiredMinMax) Key() string     { return "required_min_max" }
func (RequiredAttributes) Key() string { return "required_attributes" }
func (RequiredIntervals) Key() string  { return "required_intervals" }
func (Bounds) Key() string             { return "bounds" }
func (CellMethods) Key() string        { return "cell_methods" }
func (Dimensions) Key() string         { return "dimensions" }
func (c GlobalEquals) Key() string     { return c.Name }
func (c AttrEquals) Key() string       { return c.Name }
func (c Unimplemented) Key() string    { return c.Name }

func (RequiredValues) isConstraint()     {}
func (RequiredRange) isConstraint()      {}
func (RequiredMinMax) isConstraint()     {}
func (RequiredAttributes) isConstraint() {}
func (RequiredIntervals) isConstraint()  {}
func (Bounds) isConstraint()             {}
func (CellMethods) isConstraint()        {}
func (Dimensions) isConstraint()         {}
func (GlobalEquals) isConstraint()       {}
func (AttrEquals) isConstraint()         {}
func (Unimplemented) isConstraint()      {}
