package param

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nvandessel/paramtree/internal/utils"
)

// Perturb applies a perturbation spec to p and returns the node that should
// occupy p's slot afterwards. Unknown child ids are logged on slog.Default.
// See PerturbLogged.
func Perturb(p Parameter, spec any) (Parameter, error) {
	return PerturbLogged(slog.Default(), p, spec)
}

// PerturbLogged applies a perturbation spec to p:
//
//   - a number on a *Leaf returns a new *Perturbed wrapping it; the leaf is
//     not modified, so callers must store the result.
//   - a number on a *Perturbed updates its fraction and returns it.
//   - a map on a Composite perturbs each named child and reassigns the
//     child's slot. Values may be numbers or nested maps. Ids naming no child
//     are logged at warn level and skipped; the others are still applied.
//
// Any other pairing fails with ErrInvalidPerturbation.
func PerturbLogged(logger *slog.Logger, p Parameter, spec any) (Parameter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if f, ok := utils.AsFloat64(spec); ok {
		switch node := p.(type) {
		case *Leaf:
			return NewPerturbed(node, f), nil
		case *Perturbed:
			node.SetPerturbation(f)
			return node, nil
		}
		return nil, fmt.Errorf("%w: fraction %v given for %s %q", ErrInvalidPerturbation, f, p.Kind(), p.ID())
	}

	fractions, err := specMap(spec)
	if err != nil {
		return nil, err
	}
	c, ok := p.(Composite)
	if !ok {
		return nil, fmt.Errorf("%w: map given for %s %q", ErrInvalidPerturbation, p.Kind(), p.ID())
	}

	ids := make([]string, 0, len(fractions))
	for id := range fractions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		child, err := c.Get(id)
		if errors.Is(err, ErrNotFound) {
			logger.Warn("perturbation target not found, skipping", "parent", c.ID(), "id", id)
			continue
		}
		if err != nil {
			return c, err
		}
		next, err := PerturbLogged(logger, child, fractions[id])
		if err != nil {
			return c, fmt.Errorf("perturb %s.%s: %w", c.ID(), id, err)
		}
		if next != child {
			if err := c.Set(id, next); err != nil {
				return c, fmt.Errorf("perturb %s.%s: %w", c.ID(), id, err)
			}
		}
	}
	return c, nil
}

func specMap(spec any) (map[string]any, error) {
	switch m := spec.(type) {
	case map[string]any:
		return m, nil
	case map[string]float64:
		out := make(map[string]any, len(m))
		for k, f := range m {
			out[k] = f
		}
		return out, nil
	case Record:
		return m.Map(), nil
	}
	return nil, fmt.Errorf("%w: spec of type %T", ErrInvalidPerturbation, spec)
}
