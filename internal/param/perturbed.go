package param

import (
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/paramtree/internal/utils"
)

// RandSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// globalSource draws from the process-wide math/rand/v2 generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Perturbed wraps a leaf and scales its transform by 1 + p*U, with U drawn
// uniformly from [-1, 1] on every call. p is a fraction expected in [0, 1];
// it is not clamped.
type Perturbed struct {
	leaf         *Leaf
	perturbation float64
	src          RandSource
}

// NewPerturbed wraps leaf with the given perturbation fraction.
func NewPerturbed(leaf *Leaf, perturbation float64) *Perturbed {
	return &Perturbed{leaf: leaf, perturbation: perturbation}
}

func (p *Perturbed) Kind() Kind { return KindPerturbed }

// Leaf returns the wrapped leaf.
func (p *Perturbed) Leaf() *Leaf { return p.leaf }

func (p *Perturbed) ID() string                   { return p.leaf.ID() }
func (p *Perturbed) SetID(id string)              { p.leaf.SetID(id) }
func (p *Perturbed) Name() string                 { return p.leaf.Name() }
func (p *Perturbed) SetName(name string)          { p.leaf.SetName(name) }
func (p *Perturbed) Description() string          { return p.leaf.Description() }
func (p *Perturbed) SetDescription(desc string)   { p.leaf.SetDescription(desc) }
func (p *Perturbed) Transformer() Transformer     { return p.leaf.Transformer() }
func (p *Perturbed) SetTransformer(t Transformer) { p.leaf.SetTransformer(t) }
func (p *Perturbed) Units() string                { return p.leaf.Units() }
func (p *Perturbed) SetUnits(units string)        { p.leaf.SetUnits(units) }

// Perturbation returns the perturbation fraction.
func (p *Perturbed) Perturbation() float64 { return p.perturbation }

// SetPerturbation changes the perturbation fraction.
func (p *Perturbed) SetPerturbation(f float64) { p.perturbation = f }

// SetSource replaces the random source; nil restores the global generator.
func (p *Perturbed) SetSource(src RandSource) { p.src = src }

func (p *Perturbed) Value() any           { return p.leaf.Value() }
func (p *Perturbed) SetValue(v any) error { return p.leaf.SetValue(v) }

// Transform draws a new factor on every call.
func (p *Perturbed) Transform() (any, error) {
	v, err := p.leaf.Transform()
	if err != nil {
		return nil, err
	}
	src := p.src
	if src == nil {
		src = globalSource{}
	}
	u := 2*src.Float64() - 1
	out, err := scale(v, 1+p.perturbation*u)
	if err != nil {
		return nil, fmt.Errorf("perturb %s: %w", p.leaf.ID(), err)
	}
	return out, nil
}

func (p *Perturbed) Traverse(visit Visitor) {
	if !visit(p) {
		return
	}
	p.leaf.Traverse(visit)
}

// scale multiplies a number, or every element of a numeric slice, by factor.
func scale(v any, factor float64) (any, error) {
	switch x := v.(type) {
	case []float64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = e * factor
		}
		return out, nil
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			n, ok := utils.AsFloat64(e)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", ErrNotNumeric, i, e)
			}
			out[i] = n * factor
		}
		return out, nil
	}
	n, ok := utils.AsFloat64(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
	return n * factor, nil
}
