package dataset

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
)

// Load reads a dataset dump from path. The dump form is YAML (or JSON, which
// YAML subsumes) with two top-level sections:
//
//	attributes:
//	  forecast_reference_time: "2020-01-01T00:00:00Z"
//	variables:
//	  time:
//	    attributes: {units: hours}
//	    dimensions: [time]
//	    data: [0, 6, 12]
//	    mask: [false, false, true]   # optional
//
// Declaration order of attributes and variables is preserved so that
// validation output is deterministic.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput, "unable to load "+path, err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput, "unable to load "+path, err)
	}
	return ds, nil
}

// Decode reads a dataset dump from r.
func Decode(r io.Reader) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput, "invalid dataset document", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput, "empty dataset document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput, "dataset document is not a mapping")
	}

	ds := New()
	for i := 0; i < len(root.Content)-1; i += 2 {
		key := root.Content[i].Value
		node := root.Content[i+1]
		switch key {
		case "attributes":
			if err := decodeAttrs(node, ds.SetGlobalAttr); err != nil {
				return nil, err
			}
		case "variables":
			if node.Kind != yaml.MappingNode {
				return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput, "variables section is not a mapping")
			}
			for j := 0; j < len(node.Content)-1; j += 2 {
				v, err := decodeVariable(node.Content[j].Value, node.Content[j+1])
				if err != nil {
					return nil, err
				}
				ds.AddVariable(v)
			}
		default:
			return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput,
				fmt.Sprintf("unknown dataset section %q", key))
		}
	}
	return ds, nil
}

func decodeAttrs(node *yaml.Node, set func(string, any)) error {
	if node.Kind != yaml.MappingNode {
		return ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput, "attributes section is not a mapping")
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
				"invalid attribute "+node.Content[i].Value, err)
		}
		set(node.Content[i].Value, value)
	}
	return nil
}

func decodeVariable(name string, node *yaml.Node) (*Variable, error) {
	if node.Kind != yaml.MappingNode {
		return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput,
			fmt.Sprintf("variable %q is not a mapping", name))
	}

	var (
		dims  []string
		data  Array
		attrs *yaml.Node
	)
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		var err error
		switch key {
		case "attributes":
			attrs = val
		case "dimensions":
			err = val.Decode(&dims)
		case "data":
			err = val.Decode(&data.Values)
		case "mask":
			err = val.Decode(&data.Mask)
		default:
			err = ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput,
				fmt.Sprintf("unknown key %q in variable %q", key, name))
		}
		if err != nil {
			return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
				fmt.Sprintf("invalid variable %q", name), err)
		}
	}
	if len(data.Mask) > 0 && len(data.Mask) != len(data.Values) {
		return nil, ncqcerrors.New(ncqcerrors.ErrCodeMalformedInput,
			fmt.Sprintf("variable %q: mask length %d does not match data length %d",
				name, len(data.Mask), len(data.Values)))
	}

	v := NewVariable(name, dims, data)
	if attrs != nil {
		if err := decodeAttrs(attrs, v.SetAttr); err != nil {
			return nil, ncqcerrors.Wrap(ncqcerrors.ErrCodeMalformedInput,
				fmt.Sprintf("invalid variable %q", name), err)
		}
	}
	return v, nil
}
