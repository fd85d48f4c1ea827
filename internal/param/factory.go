package param

import (
	"fmt"

	"github.com/nvandessel/paramtree/internal/dispatch"
	"github.com/nvandessel/paramtree/internal/utils"
)

// Args is the open argument bag accepted by New.
type Args = dispatch.Args

// Argument names understood by the factory.
const (
	ArgID           = "id"
	ArgName         = "name"
	ArgDescription  = "description"
	ArgTransformer  = "transformer"
	ArgUnits        = "units"
	ArgValue        = "value"
	ArgChildren     = "children"
	ArgSelection    = "selection"
	ArgPerturbation = "perturbation"
	ArgSize         = "size"
	ArgSizeID       = "sizeid"
	ArgRand         = "rand"
)

// Factory builds parameters from argument bags by dispatching on the names
// present. It is immutable once created.
type Factory struct {
	registry *dispatch.Registry[Parameter]
}

// NewFactory creates a factory with the five built-in variants registered.
func NewFactory() *Factory {
	r := dispatch.New[Parameter](buildLeaf)
	r.Register([]string{ArgValue}, buildLeaf)
	r.Register([]string{ArgChildren}, buildContainer)
	r.Extend([]string{ArgChildren}, []string{ArgSelection}, buildOptions)
	r.Extend([]string{ArgValue}, []string{ArgPerturbation}, buildPerturbed)
	r.Extend([]string{ArgChildren}, []string{ArgSize}, buildBroadcaster)
	return &Factory{registry: r}
}

// New builds the variant selected by the argument names in args.
func (f *Factory) New(args Args) (Parameter, error) {
	return f.registry.Dispatch(args)
}

// Signatures lists the registered argument signatures.
func (f *Factory) Signatures() [][]string { return f.registry.Signatures() }

var defaultFactory = NewFactory()

// New builds a parameter with the default factory.
func New(args Args) (Parameter, error) { return defaultFactory.New(args) }

// MustNew is New that panics on error, for static trees in tests and examples.
func MustNew(args Args) Parameter {
	p, err := New(args)
	if err != nil {
		panic(err)
	}
	return p
}

func identify(args Args) (string, error) {
	id := utils.GetString(args, ArgID, "")
	if id == "" {
		id = utils.GetString(args, ArgName, "")
	}
	if id == "" {
		return "", ErrMissingID
	}
	return id, nil
}

func applyMetadata(p Parameter, args Args) error {
	if name := utils.GetString(args, ArgName, ""); name != "" {
		p.SetName(name)
	}
	p.SetDescription(utils.GetString(args, ArgDescription, ""))
	t, err := asTransformer(args[ArgTransformer])
	if err != nil {
		return err
	}
	p.SetTransformer(t)
	return nil
}

func newLeaf(args Args) (*Leaf, error) {
	id, err := identify(args)
	if err != nil {
		return nil, err
	}
	l := NewLeaf(id, args[ArgValue])
	l.SetUnits(utils.GetString(args, ArgUnits, ""))
	if err := applyMetadata(l, args); err != nil {
		return nil, fmt.Errorf("leaf %q: %w", id, err)
	}
	return l, nil
}

func newContainer(args Args) (*Container, error) {
	id, err := identify(args)
	if err != nil {
		return nil, err
	}
	children, err := childList(args[ArgChildren])
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", id, err)
	}
	c, err := NewContainer(id, children...)
	if err != nil {
		return nil, err
	}
	if err := applyMetadata(c, args); err != nil {
		return nil, fmt.Errorf("container %q: %w", id, err)
	}
	return c, nil
}

func buildLeaf(args Args) (Parameter, error) { return newLeaf(args) }

func buildContainer(args Args) (Parameter, error) { return newContainer(args) }

func buildOptions(args Args) (Parameter, error) {
	c, err := newContainer(args)
	if err != nil {
		return nil, err
	}
	sel, ok := args[ArgSelection].(string)
	if !ok {
		return nil, fmt.Errorf("%w: options %q selection must be a string, got %T", ErrInvalidArgument, c.ID(), args[ArgSelection])
	}
	return WrapOptions(c, sel)
}

func buildPerturbed(args Args) (Parameter, error) {
	l, err := newLeaf(args)
	if err != nil {
		return nil, err
	}
	f, ok := utils.AsFloat64(args[ArgPerturbation])
	if !ok {
		return nil, fmt.Errorf("%w: perturbation of %q must be a number, got %T", ErrInvalidArgument, l.ID(), args[ArgPerturbation])
	}
	p := NewPerturbed(l, f)
	if src, ok := args[ArgRand].(RandSource); ok {
		p.SetSource(src)
	}
	return p, nil
}

func buildBroadcaster(args Args) (Parameter, error) {
	c, err := newContainer(args)
	if err != nil {
		return nil, err
	}
	sizeID := utils.GetString(args, ArgSizeID, DefaultSizeID)
	return WrapBroadcaster(c, NewLeaf(sizeID, args[ArgSize]))
}

func childList(v any) ([]Parameter, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []Parameter:
		return list, nil
	case []any:
		out := make([]Parameter, len(list))
		for i, item := range list {
			p, ok := item.(Parameter)
			if !ok {
				return nil, fmt.Errorf("%w: child %d is %T", ErrInvalidArgument, i, item)
			}
			out[i] = p
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: children must be a list of parameters, got %T", ErrInvalidArgument, v)
}
