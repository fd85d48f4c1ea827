package param

import "fmt"

// Kind tags the parameter variants.
type Kind int

const (
	KindLeaf Kind = iota
	KindContainer
	KindOptions
	KindPerturbed
	KindBroadcaster
)

var kindNames = [...]string{
	KindLeaf:        "leaf",
	KindContainer:   "container",
	KindOptions:     "options",
	KindPerturbed:   "perturbed",
	KindBroadcaster: "broadcaster",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Transformer turns a stored value into a usable one. Leaves pass their raw
// value, containers pass a [Record] of their children's transforms, and
// options pass the selected child's transform.
type Transformer func(any) (any, error)

// Visitor is called for each node during Traverse. Returning false skips the
// node's descendants.
type Visitor func(Parameter) bool

// Parameter is the capability set shared by all variants.
type Parameter interface {
	Kind() Kind

	ID() string
	SetID(id string)
	Name() string
	SetName(name string)
	Description() string
	SetDescription(desc string)
	Transformer() Transformer
	SetTransformer(t Transformer)

	// Value returns the stored value. Composites return a Record of their
	// children's stored values.
	Value() any

	// SetValue replaces the stored value. Composites accept a
	// map[string]any or Record keyed by child id.
	SetValue(v any) error

	// Transform applies the transformer to the stored value.
	Transform() (any, error)

	// Traverse walks the tree depth-first in pre-order.
	Traverse(visit Visitor)
}

// Composite is implemented by the variants that own children.
type Composite interface {
	Parameter

	// Children returns the child parameters in order.
	Children() []Parameter

	// Get returns the live child with the given id.
	Get(id string) (Parameter, error)

	// GetOr returns the child with the given id, or def when absent.
	GetOr(id string, def Parameter) Parameter

	// Set replaces the child at id.
	Set(id string, child Parameter) error

	// Append adds a new child.
	Append(child Parameter) error
}

// metadata is embedded in Leaf and Container; the other variants reach it
// through their wrapped base.
type metadata struct {
	id          string
	name        string
	description string
	transformer Transformer
}

func (m *metadata) ID() string      { return m.id }
func (m *metadata) SetID(id string) { m.id = id }

// Name returns the display name, falling back to the id.
func (m *metadata) Name() string {
	if m.name == "" {
		return m.id
	}
	return m.name
}

func (m *metadata) SetName(name string)        { m.name = name }
func (m *metadata) Description() string        { return m.description }
func (m *metadata) SetDescription(desc string) { m.description = desc }

// Transformer returns the transformer, or Identity when none is set.
func (m *metadata) Transformer() Transformer {
	if m.transformer == nil {
		return Identity
	}
	return m.transformer
}

// SetTransformer installs t; nil restores Identity.
func (m *metadata) SetTransformer(t Transformer) { m.transformer = t }

func (m *metadata) apply(v any) (any, error) {
	if m.transformer == nil {
		return v, nil
	}
	out, err := m.transformer(v)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", m.id, err)
	}
	return out, nil
}
