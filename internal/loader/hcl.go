package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRoot is the top level of an HCL parameter file: a single parameter
// attribute holding an object expression.
type hclRoot struct {
	Parameter hcl.Expression `hcl:"parameter"`
	Remain    hcl.Body       `hcl:",remain"`
}

// ParseHCL decodes an HCL parameter file into a record.
func ParseHCL(data []byte, filename string) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	val, diags := root.Parameter.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate parameter: %w", diags)
	}

	native, err := ctyToNative(val)
	if err != nil {
		return nil, err
	}
	record, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: parameter must be an object, got %s", ErrInvalidRecord, val.Type().FriendlyName())
	}
	return record, nil
}

// ctyToNative converts a cty.Value into plain Go values: strings, float64
// numbers, bools, []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			nv, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			nv, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = nv
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unsupported HCL type %s", ErrInvalidRecord, ty.FriendlyName())
}
