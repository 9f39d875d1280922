package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
)

// Reserved top-level keys that are not attribute or variable rules.
const (
	keyRequiredGlobals   = "required_global_attributes"
	keyAllowedDimensions = "allowed_dimensions"
)

// Load parses the schema document at path.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput, "unable to load "+path, err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput, "unable to load "+path, err)
	}
	return s, nil
}

// Parse decodes a schema document. YAML and JSON forms are both accepted.
// Top-level declaration order is preserved so that validation output is
// deterministic.
func Parse(raw []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput, "invalid schema document", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput, "empty schema document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput, "schema document is not a mapping")
	}

	s := &Schema{
		AllowedDimensions: make(map[string]bool),
		globals:           make(map[string]*GlobalRule),
		vars:              make(map[string]*VariableRule),
	}

	// First pass: the reserved keys. Constraint classification in the second
	// pass depends on the required-globals list.
	for i := 0; i < len(root.Content)-1; i += 2 {
		key := root.Content[i].Value
		node := root.Content[i+1]
		switch key {
		case keyRequiredGlobals:
			if err := node.Decode(&s.RequiredGlobals); err != nil {
				return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
					keyRequiredGlobals+" must be a list of names", err)
			}
		case keyAllowedDimensions:
			var dims []string
			if err := node.Decode(&dims); err != nil {
				return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
					keyAllowedDimensions+" must be a list of names", err)
			}
			for _, d := range dims {
				s.AllowedDimensions[d] = true
			}
		}
	}

	// Second pass: every other entry is a rule, readable as a constraint on
	// a same-named global attribute, a same-named variable, or both. Which
	// interpretation applies is decided at check time by what the dataset
	// and the required-globals list actually contain.
	for i := 0; i < len(root.Content)-1; i += 2 {
		key := root.Content[i].Value
		node := root.Content[i+1]
		if key == keyRequiredGlobals || key == keyAllowedDimensions {
			continue
		}

		s.globals[key] = parseGlobalRule(key, node)

		if node.Kind == yaml.MappingNode {
			vr, err := parseVariableRule(s, key, node)
			if err != nil {
				return nil, err
			}
			s.varOrder = append(s.varOrder, key)
			s.vars[key] = vr
		}
	}

	return s, nil
}

func parseGlobalRule(name string, node *yaml.Node) *GlobalRule {
	switch node.Kind {
	case yaml.SequenceNode:
		rule := &GlobalRule{Name: name, Kind: GlobalAllowedValues}
		for _, item := range node.Content {
			var v any
			if err := item.Decode(&v); err != nil {
				continue
			}
			rule.Allowed = append(rule.Allowed, v)
		}
		return rule
	case yaml.MappingNode:
		rule := &GlobalRule{Name: name, Kind: GlobalObject}
		for i := 0; i < len(node.Content)-1; i += 2 {
			var v any
			_ = node.Content[i+1].Decode(&v)
			rule.Checks = append(rule.Checks, GlobalSubCheck{
				Name:  node.Content[i].Value,
				Value: v,
			})
		}
		return rule
	default:
		return &GlobalRule{Name: name, Kind: GlobalUndefined}
	}
}

func parseVariableRule(s *Schema, name string, node *yaml.Node) (*VariableRule, error) {
	rule := &VariableRule{Name: name}
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		c, err := parseConstraint(s, name, key, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		rule.Constraints = append(rule.Constraints, c)
	}
	return rule, nil
}

func parseConstraint(s *Schema, variable, key string, node *yaml.Node) (Constraint, error) {
	fail := func(err error) (Constraint, error) {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
			fmt.Sprintf("variable %q: invalid %s entry", variable, key), err)
	}

	switch key {
	case "required_values":
		var values []float64
		if err := node.Decode(&values); err != nil {
			return fail(err)
		}
		return RequiredValues{Values: values}, nil

	case "required_range", "required_min_max":
		var bound []float64
		if err := node.Decode(&bound); err != nil {
			return fail(err)
		}
		if len(bound) != 2 {
			return fail(fmt.Errorf("expected 2 elements, got %d", len(bound)))
		}
		if key == "required_range" {
			return RequiredRange{Min: bound[0], Max: bound[1]}, nil
		}
		return RequiredMinMax{Min: bound[0], Max: bound[1]}, nil

	case "required_attributes":
		var names []string
		if err := node.Decode(&names); err != nil {
			return fail(err)
		}
		return RequiredAttributes{Names: names}, nil

	case "required_intervals":
		return parseIntervals(variable, node)

	case "bounds":
		var names []string
		if err := node.Decode(&names); err != nil {
			var single string
			if serr := node.Decode(&single); serr != nil {
				return fail(err)
			}
			names = []string{single}
		}
		return Bounds{Names: names}, nil

	case "cell_methods":
		var pattern string
		if err := node.Decode(&pattern); err != nil {
			return fail(err)
		}
		return CellMethods{Pattern: pattern}, nil

	case "dimensions":
		var names []string
		if err := node.Decode(&names); err != nil {
			return fail(err)
		}
		return Dimensions{Names: names}, nil
	}

	// Any other "required" key is a constraint kind this engine cannot
	// evaluate. It parses to a variant that always fails the check.
	if strings.HasPrefix(key, "required") {
		return Unimplemented{Name: key}, nil
	}

	var expected any
	if err := node.Decode(&expected); err != nil {
		return fail(err)
	}
	if s.RequiresGlobal(key) {
		return GlobalEquals{Name: key, Expected: expected}, nil
	}
	return AttrEquals{Name: key, Expected: expected}, nil
}

func parseIntervals(variable string, node *yaml.Node) (Constraint, error) {
	switch node.Kind {
	case yaml.MappingNode:
		c := RequiredIntervals{}
		for i := 0; i < len(node.Content)-1; i += 2 {
			comp := CompanionStep{Variable: node.Content[i].Value}
			val := node.Content[i+1]
			if err := val.Decode(&comp.Step); err != nil {
				if serr := val.Decode(&comp.Keyword); serr != nil {
					return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
						fmt.Sprintf("variable %q: invalid required_intervals entry for %q",
							variable, comp.Variable), err)
				}
			}
			c.Companions = append(c.Companions, comp)
		}
		return c, nil
	default:
		var step float64
		if err := node.Decode(&step); err != nil {
			return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
				fmt.Sprintf("variable %q: required_intervals must be a number or a mapping", variable), err)
		}
		return RequiredIntervals{Bare: &step}, nil
	}
}
