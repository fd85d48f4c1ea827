package param

import (
	"fmt"

	"github.com/nvandessel/paramtree/internal/utils"
)

// DefaultSizeID is the id of a broadcaster's size leaf unless overridden.
const DefaultSizeID = "broadcastsize"

// Broadcaster describes n independent samples of a container. Transform
// evaluates the container n times, so perturbed descendants draw anew for
// every record.
type Broadcaster struct {
	base *Container
	size *Leaf
}

// NewBroadcaster creates a broadcaster of size n over the given children.
func NewBroadcaster(id string, n int, children ...Parameter) (*Broadcaster, error) {
	base, err := NewContainer(id, children...)
	if err != nil {
		return nil, err
	}
	return WrapBroadcaster(base, NewLeaf(DefaultSizeID, n))
}

// WrapBroadcaster builds a broadcaster around an existing container and size
// leaf. The size leaf's id must not collide with a child id.
func WrapBroadcaster(base *Container, size *Leaf) (*Broadcaster, error) {
	if size == nil {
		return nil, fmt.Errorf("%w: nil size leaf", ErrInvalidArgument)
	}
	if _, err := checkSize(size.Value()); err != nil {
		return nil, err
	}
	if base.index(size.ID()) >= 0 {
		return nil, fmt.Errorf("%w: size id %q in %q", ErrDuplicateID, size.ID(), base.ID())
	}
	return &Broadcaster{base: base, size: size}, nil
}

func (b *Broadcaster) Kind() Kind { return KindBroadcaster }

// Container returns the wrapped container.
func (b *Broadcaster) Container() *Container { return b.base }

// SizeLeaf returns the leaf holding the broadcast size.
func (b *Broadcaster) SizeLeaf() *Leaf { return b.size }

func (b *Broadcaster) ID() string                   { return b.base.ID() }
func (b *Broadcaster) SetID(id string)              { b.base.SetID(id) }
func (b *Broadcaster) Name() string                 { return b.base.Name() }
func (b *Broadcaster) SetName(name string)          { b.base.SetName(name) }
func (b *Broadcaster) Description() string          { return b.base.Description() }
func (b *Broadcaster) SetDescription(desc string)   { b.base.SetDescription(desc) }
func (b *Broadcaster) Transformer() Transformer     { return b.base.Transformer() }
func (b *Broadcaster) SetTransformer(t Transformer) { b.base.SetTransformer(t) }

// Size returns the broadcast size. It fails if the size leaf was given a
// value that is not a non-negative integer through a live reference.
func (b *Broadcaster) Size() (int, error) { return checkSize(b.size.Value()) }

// SetSize changes the broadcast size.
func (b *Broadcaster) SetSize(n int) error {
	if _, err := checkSize(n); err != nil {
		return err
	}
	return b.size.SetValue(n)
}

func (b *Broadcaster) Children() []Parameter { return b.base.Children() }

// Get returns the child with the given id; the size id yields the size leaf.
func (b *Broadcaster) Get(id string) (Parameter, error) {
	if id == b.size.ID() {
		return b.size, nil
	}
	return b.base.Get(id)
}

// GetOr is Get with a default for absent ids.
func (b *Broadcaster) GetOr(id string, def Parameter) Parameter {
	if id == b.size.ID() {
		return b.size
	}
	return b.base.GetOr(id, def)
}

// Set replaces the child at id. The size id routes to the size leaf, whose
// replacement must be a *Leaf holding a valid size.
func (b *Broadcaster) Set(id string, child Parameter) error {
	if id != b.size.ID() {
		return b.base.Set(id, child)
	}
	leaf, ok := child.(*Leaf)
	if !ok {
		return fmt.Errorf("%w: size slot %q needs a leaf, got %T", ErrInvalidArgument, id, child)
	}
	if leaf.ID() != id {
		return fmt.Errorf("%w: slot %q, child %q", ErrIDMismatch, id, leaf.ID())
	}
	if _, err := checkSize(leaf.Value()); err != nil {
		return err
	}
	b.size = leaf
	return nil
}

// Append adds a child; the size id is reserved.
func (b *Broadcaster) Append(child Parameter) error {
	if child != nil && child.ID() == b.size.ID() {
		return fmt.Errorf("%w: %q is the size id of %q", ErrDuplicateID, child.ID(), b.base.ID())
	}
	return b.base.Append(child)
}

// Value returns the children's stored values followed by the size.
func (b *Broadcaster) Value() any {
	r := b.base.Value().(Record)
	return append(r, Field{ID: b.size.ID(), Value: b.size.Value()})
}

// SetValue updates children and, under the size id, the size. The size is
// validated before anything changes.
func (b *Broadcaster) SetValue(v any) error {
	values, err := valueMap(v)
	if err != nil {
		return err
	}
	if nv, ok := values[b.size.ID()]; ok {
		n, err := checkSize(nv)
		if err != nil {
			return err
		}
		if err := b.base.SetValue(values); err != nil {
			return err
		}
		return b.size.SetValue(n)
	}
	return b.base.SetValue(values)
}

// Transform returns a []any holding n independent transforms of the
// container. Size 0 yields an empty slice.
func (b *Broadcaster) Transform() (any, error) {
	n, err := b.Size()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := b.base.Transform()
		if err != nil {
			return nil, fmt.Errorf("broadcast %s[%d]: %w", b.base.ID(), i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Traverse visits the broadcaster, its children, then the size leaf.
func (b *Broadcaster) Traverse(visit Visitor) {
	if !visit(b) {
		return
	}
	for _, child := range b.base.children {
		child.Traverse(visit)
	}
	b.size.Traverse(visit)
}

func checkSize(v any) (int, error) {
	n, ok := utils.AsInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: %v (%T)", ErrInvalidSize, v, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	return n, nil
}
