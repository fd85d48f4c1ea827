package param

import (
	"fmt"

	"github.com/nvandessel/paramtree/internal/units"
	"github.com/nvandessel/paramtree/internal/utils"
)

// Identity is the default transformer.
func Identity(v any) (any, error) { return v, nil }

// Func adapts an infallible function into a Transformer.
func Func(f func(any) any) Transformer {
	return func(v any) (any, error) { return f(v), nil }
}

// RecordFunc adapts a function of a container's transformed children.
func RecordFunc(f func(Record) (any, error)) Transformer {
	return func(v any) (any, error) {
		r, ok := v.(Record)
		if !ok {
			return nil, fmt.Errorf("%w: record transformer got %T", ErrInvalidArgument, v)
		}
		return f(r)
	}
}

// Scalar lifts a float function to numbers and numeric slices. Slices are
// mapped element-wise into a []float64.
func Scalar(f func(float64) float64) Transformer {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case []float64:
			out := make([]float64, len(x))
			for i, e := range x {
				out[i] = f(e)
			}
			return out, nil
		case []any:
			out := make([]float64, len(x))
			for i, e := range x {
				n, ok := utils.AsFloat64(e)
				if !ok {
					return nil, fmt.Errorf("%w: element %d is %T", ErrNotNumeric, i, e)
				}
				out[i] = f(n)
			}
			return out, nil
		}
		n, ok := utils.AsFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrNotNumeric, v)
		}
		return f(n), nil
	}
}

// ToSI returns a transformer converting values in unit to SI. Units unknown
// to reg convert with the identity.
func ToSI(reg *units.Registry, unit string) Transformer {
	return Scalar(reg.ToSIConverter(unit, units.Identity))
}

// FromSI returns a transformer converting SI values into unit. Units unknown
// to reg convert with the identity.
func FromSI(reg *units.Registry, unit string) Transformer {
	return Scalar(reg.FromSIConverter(unit, units.Identity))
}

// asTransformer accepts the function shapes callers commonly pass as the
// transformer argument.
func asTransformer(v any) (Transformer, error) {
	switch f := v.(type) {
	case nil:
		return nil, nil
	case Transformer:
		return f, nil
	case func(any) (any, error):
		return f, nil
	case func(any) any:
		return Func(f), nil
	case func(Record) (any, error):
		return RecordFunc(f), nil
	case units.Converter:
		return Scalar(f), nil
	case func(float64) float64:
		return Scalar(f), nil
	}
	return nil, fmt.Errorf("%w: transformer of type %T", ErrInvalidArgument, v)
}
