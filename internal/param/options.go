package param

import "fmt"

// Options is a container of mutually exclusive alternatives. Its value and
// transform are those of the selected child.
//
// The selection is held by slot, so it follows the selected child through
// SetID on a live handle and through Set.
type Options struct {
	base *Container
	slot int
}

// NewOptions creates an options parameter selecting the child named selection.
func NewOptions(id, selection string, children ...Parameter) (*Options, error) {
	base, err := NewContainer(id, children...)
	if err != nil {
		return nil, err
	}
	return WrapOptions(base, selection)
}

// WrapOptions builds an options parameter around an existing container.
func WrapOptions(base *Container, selection string) (*Options, error) {
	o := &Options{base: base}
	if err := o.SetSelection(selection); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) Kind() Kind { return KindOptions }

// Container returns the wrapped container.
func (o *Options) Container() *Container { return o.base }

func (o *Options) ID() string                   { return o.base.ID() }
func (o *Options) SetID(id string)              { o.base.SetID(id) }
func (o *Options) Name() string                 { return o.base.Name() }
func (o *Options) SetName(name string)          { o.base.SetName(name) }
func (o *Options) Description() string          { return o.base.Description() }
func (o *Options) SetDescription(desc string)   { o.base.SetDescription(desc) }
func (o *Options) Transformer() Transformer     { return o.base.Transformer() }
func (o *Options) SetTransformer(t Transformer) { o.base.SetTransformer(t) }

// Selection returns the current id of the selected child.
func (o *Options) Selection() string { return o.Selected().ID() }

// SetSelection selects the child with the given id. An unknown or ambiguous
// id fails and leaves the selection unchanged.
func (o *Options) SetSelection(id string) error {
	i, err := o.base.find(id)
	if err != nil {
		return fmt.Errorf("option: %w", err)
	}
	o.slot = i
	return nil
}

// Selected returns the selected child.
func (o *Options) Selected() Parameter { return o.base.children[o.slot] }

func (o *Options) Children() []Parameter                    { return o.base.Children() }
func (o *Options) Get(id string) (Parameter, error)         { return o.base.Get(id) }
func (o *Options) GetOr(id string, def Parameter) Parameter { return o.base.GetOr(id, def) }
func (o *Options) Append(child Parameter) error             { return o.base.Append(child) }

// Set replaces the child at id; the selection follows the slot.
func (o *Options) Set(id string, child Parameter) error { return o.base.Set(id, child) }

// Value returns the selected child's stored value.
func (o *Options) Value() any { return o.Selected().Value() }

// SetValue updates the alternatives from a map keyed by child id, so
// unselected options can be prepared before switching to them.
func (o *Options) SetValue(v any) error { return o.base.SetValue(v) }

// Transform applies the transformer to the selected child's transform.
func (o *Options) Transform() (any, error) {
	v, err := o.Selected().Transform()
	if err != nil {
		return nil, err
	}
	return o.base.apply(v)
}

func (o *Options) Traverse(visit Visitor) {
	if !visit(o) {
		return
	}
	for _, child := range o.base.children {
		child.Traverse(visit)
	}
}
