package param

import "fmt"

// Container owns an ordered list of children with unique ids.
//
// Lookups return live children: mutating a returned child mutates the tree.
// Keeping sibling ids unique when renaming a child through such a handle is
// the caller's responsibility; Get, Set, SetValue and Transform report
// ErrDuplicateID once two siblings share an id.
type Container struct {
	metadata
	children []Parameter
}

// NewContainer creates a container. Duplicate child ids are rejected.
func NewContainer(id string, children ...Parameter) (*Container, error) {
	c := &Container{metadata: metadata{id: id}}
	for _, child := range children {
		if err := c.Append(child); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) Kind() Kind { return KindContainer }

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// Children returns a copy of the child list.
func (c *Container) Children() []Parameter {
	out := make([]Parameter, len(c.children))
	copy(out, c.children)
	return out
}

func (c *Container) index(id string) int {
	for i, child := range c.children {
		if child.ID() == id {
			return i
		}
	}
	return -1
}

// find returns the slot of the only child with the given id.
func (c *Container) find(id string) (int, error) {
	found := -1
	for i, child := range c.children {
		if child.ID() != id {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: %q in %q", ErrDuplicateID, id, c.id)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q in %q", ErrNotFound, id, c.id)
	}
	return found, nil
}

// checkUnique reports the first id shared by two children.
func (c *Container) checkUnique() error {
	seen := make(map[string]struct{}, len(c.children))
	for _, child := range c.children {
		id := child.ID()
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q in %q", ErrDuplicateID, id, c.id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Get returns the child with the given id.
func (c *Container) Get(id string) (Parameter, error) {
	i, err := c.find(id)
	if err != nil {
		return nil, err
	}
	return c.children[i], nil
}

// GetOr returns the child with the given id, or def when absent.
func (c *Container) GetOr(id string, def Parameter) Parameter {
	if i := c.index(id); i >= 0 {
		return c.children[i]
	}
	return def
}

// Set replaces the child at id. The replacement must carry the same id.
func (c *Container) Set(id string, child Parameter) error {
	if child == nil {
		return fmt.Errorf("%w: nil child for %q", ErrInvalidArgument, id)
	}
	if child.ID() != id {
		return fmt.Errorf("%w: slot %q, child %q", ErrIDMismatch, id, child.ID())
	}
	i, err := c.find(id)
	if err != nil {
		return err
	}
	c.children[i] = child
	return nil
}

// Append adds child at the end.
func (c *Container) Append(child Parameter) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidArgument)
	}
	if c.index(child.ID()) >= 0 {
		return fmt.Errorf("%w: %q in %q", ErrDuplicateID, child.ID(), c.id)
	}
	c.children = append(c.children, child)
	return nil
}

// Value returns a Record of each child's stored value.
func (c *Container) Value() any {
	r := make(Record, len(c.children))
	for i, child := range c.children {
		r[i] = Field{ID: child.ID(), Value: child.Value()}
	}
	return r
}

// SetValue updates children from a map[string]any or Record keyed by id.
// Children missing from v keep their value; keys naming no child are ignored.
func (c *Container) SetValue(v any) error {
	values, err := valueMap(v)
	if err != nil {
		return err
	}
	if err := c.checkUnique(); err != nil {
		return err
	}
	for _, child := range c.children {
		nv, ok := values[child.ID()]
		if !ok {
			continue
		}
		if err := child.SetValue(nv); err != nil {
			return fmt.Errorf("set %s.%s: %w", c.id, child.ID(), err)
		}
	}
	return nil
}

// Transform passes a Record of the children's transforms to the transformer.
// Without a transformer the Record itself is returned.
func (c *Container) Transform() (any, error) {
	r, err := c.transformChildren()
	if err != nil {
		return nil, err
	}
	return c.apply(r)
}

func (c *Container) transformChildren() (Record, error) {
	if err := c.checkUnique(); err != nil {
		return nil, err
	}
	r := make(Record, len(c.children))
	for i, child := range c.children {
		v, err := child.Transform()
		if err != nil {
			return nil, err
		}
		r[i] = Field{ID: child.ID(), Value: v}
	}
	return r, nil
}

func (c *Container) Traverse(visit Visitor) {
	if !visit(c) {
		return
	}
	for _, child := range c.children {
		child.Traverse(visit)
	}
}

func valueMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case Record:
		return m.Map(), nil
	case map[string]float64:
		out := make(map[string]any, len(m))
		for k, f := range m {
			out[k] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: composite value must be a map keyed by child id, got %T", ErrInvalidArgument, v)
}
