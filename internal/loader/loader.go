// Package loader builds parameter trees from parameter files.
//
// A parameter file holds one nested record. Each record names its parameter
// with id and/or name (one is copied from the other) and selects its variant
// through the keys it carries:
//
//	value                  -> leaf
//	children               -> container
//	options [, selection]  -> options (selection defaults to the first option)
//	value, perturbation    -> perturbed leaf
//	children, size         -> broadcaster
//
// YAML files (.yaml, .yml) and HCL files (.hcl) are supported. After a tree is
// built, transformers registered by id are installed in a single traversal.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvandessel/paramtree/internal/dispatch"
	"github.com/nvandessel/paramtree/internal/param"
	"github.com/nvandessel/paramtree/internal/units"
	"github.com/nvandessel/paramtree/internal/utils"
)

var (
	// ErrMissingIdentity is returned for records with neither id nor name.
	ErrMissingIdentity = errors.New("loader: record has neither id nor name")

	// ErrNoVariant is returned for records carrying no variant key.
	ErrNoVariant = errors.New("loader: record has no value, children or options")

	// ErrUnsupportedFormat is returned for file extensions with no parser.
	ErrUnsupportedFormat = errors.New("loader: unsupported file format")

	// ErrInvalidRecord is returned for records with wrongly typed fields.
	ErrInvalidRecord = errors.New("loader: invalid record")
)

// Record keys.
const (
	KeyID           = "id"
	KeyName         = "name"
	KeyDescription  = "description"
	KeyUnits        = "units"
	KeyValue        = "value"
	KeyChildren     = "children"
	KeyOptions      = "options"
	KeySelection    = "selection"
	KeyPerturbation = "perturbation"
	KeySize         = "size"
	KeySizeID       = "sizeid"

	// RootKey optionally wraps the top-level record.
	RootKey = "parameter"
)

// Option configures a Loader.
type Option func(*Loader)

// WithTransformers installs transformers by parameter id after building.
func WithTransformers(m map[string]param.Transformer) Option {
	return func(l *Loader) {
		for id, t := range m {
			l.transformers[id] = t
		}
	}
}

// WithUnits sets the registry used for SI conversion.
func WithUnits(reg *units.Registry) Option {
	return func(l *Loader) { l.units = reg }
}

// WithSIConversion gives every leaf that declares units, and has no
// transformer registered by id, a transformer converting it to SI.
func WithSIConversion(enabled bool) Option {
	return func(l *Loader) { l.toSI = enabled }
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithSource sets the random source of every perturbed parameter built.
func WithSource(src param.RandSource) Option {
	return func(l *Loader) { l.src = src }
}

// Loader turns decoded records into parameter trees.
type Loader struct {
	transformers map[string]param.Transformer
	units        *units.Registry
	toSI         bool
	logger       *slog.Logger
	src          param.RandSource
	factory      *param.Factory
	variants     *dispatch.Registry[param.Parameter]
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		transformers: make(map[string]param.Transformer),
		factory:      param.NewFactory(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.units == nil {
		l.units = units.Standard()
	}

	l.variants = dispatch.New[param.Parameter](l.noVariant)
	l.variants.Register([]string{KeyValue}, l.buildValue)
	l.variants.Register([]string{KeyChildren}, l.buildChildren)
	l.variants.Register([]string{KeyOptions}, l.buildOptions)
	l.variants.Extend([]string{KeyValue}, []string{KeyPerturbation}, l.buildValue)
	l.variants.Extend([]string{KeyChildren}, []string{KeySize}, l.buildChildren)
	return l
}

// LoadFile parses and builds the parameter file at path.
func (l *Loader) LoadFile(path string) (param.Parameter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}

	var record map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		record, err = ParseYAML(data)
	case ".hcl":
		record, err = ParseHCL(data, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	l.logger.Debug("parsed parameter file", "path", path)
	return l.Build(record)
}

// Build constructs the tree described by record and installs transformers.
func (l *Loader) Build(record map[string]any) (param.Parameter, error) {
	if inner := utils.GetMap(record, RootKey); inner != nil && len(record) == 1 {
		record = inner
	}

	root, err := l.build(record, "")
	if err != nil {
		return nil, err
	}
	l.install(root)
	return root, nil
}

func (l *Loader) build(record map[string]any, parent string) (param.Parameter, error) {
	id, name, err := identity(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pathOf(parent, "?"), err)
	}
	path := pathOf(parent, id)

	args := dispatch.Args(record)
	p, err := l.variants.Dispatch(withPath(args, path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.SetName(name)
	return p, nil
}

// install walks the tree once, applying SI conversion, registered
// transformers and the random source.
func (l *Loader) install(root param.Parameter) {
	used := make(map[string]bool, len(l.transformers))
	root.Traverse(func(p param.Parameter) bool {
		if l.toSI {
			if u, ok := p.(interface{ Units() string }); ok && u.Units() != "" {
				if !l.units.Has(u.Units()) {
					l.logger.Warn("unknown unit, converting with identity", "id", p.ID(), "units", u.Units())
				}
				p.SetTransformer(param.ToSI(l.units, u.Units()))
			}
		}
		if t, ok := l.transformers[p.ID()]; ok {
			p.SetTransformer(t)
			used[p.ID()] = true
			l.logger.Debug("installed transformer", "id", p.ID())
		}
		if pp, ok := p.(*param.Perturbed); ok && l.src != nil {
			pp.SetSource(l.src)
		}
		return true
	})
	for id := range l.transformers {
		if !used[id] {
			l.logger.Warn("transformer id matches no parameter", "id", id)
		}
	}
}

// identity applies the id/name copy rule. Present keys must hold strings.
func identity(record map[string]any) (id, name string, err error) {
	for _, key := range []string{KeyID, KeyName} {
		if v, ok := record[key]; ok {
			if _, isString := v.(string); !isString {
				return "", "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidRecord, key, v)
			}
		}
	}
	id = utils.GetString(record, KeyID, "")
	name = utils.GetString(record, KeyName, "")
	switch {
	case id == "" && name == "":
		return "", "", ErrMissingIdentity
	case id == "":
		id = name
	case name == "":
		name = id
	}
	return id, name, nil
}

// pathKey carries the record's dotted path into builders.
const pathKey = "\x00path"

func withPath(args dispatch.Args, path string) dispatch.Args {
	out := make(dispatch.Args, len(args)+1)
	for k, v := range args {
		out[k] = v
	}
	out[pathKey] = path
	return out
}

func pathOf(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "." + id
}

func (l *Loader) noVariant(args dispatch.Args) (param.Parameter, error) {
	return nil, ErrNoVariant
}

// baseArgs copies the metadata keys shared by every variant.
func baseArgs(args dispatch.Args) param.Args {
	id, _, _ := identity(args)
	out := param.Args{param.ArgID: id}
	if d, ok := args[KeyDescription].(string); ok {
		out[param.ArgDescription] = d
	}
	return out
}

func (l *Loader) buildValue(args dispatch.Args) (param.Parameter, error) {
	pa := baseArgs(args)
	pa[param.ArgValue] = args[KeyValue]
	if u, ok := args[KeyUnits].(string); ok {
		pa[param.ArgUnits] = u
	}
	if args.Has(KeyPerturbation) {
		pa[param.ArgPerturbation] = args[KeyPerturbation]
	}
	return l.factory.New(pa)
}

func (l *Loader) buildChildren(args dispatch.Args) (param.Parameter, error) {
	children, err := l.buildList(args, KeyChildren)
	if err != nil {
		return nil, err
	}
	pa := baseArgs(args)
	pa[param.ArgChildren] = children
	if args.Has(KeySize) {
		pa[param.ArgSize] = args[KeySize]
		if sid, ok := args[KeySizeID].(string); ok {
			pa[param.ArgSizeID] = sid
		}
	}
	return l.factory.New(pa)
}

func (l *Loader) buildOptions(args dispatch.Args) (param.Parameter, error) {
	children, err := l.buildList(args, KeyOptions)
	if err != nil {
		return nil, err
	}
	selection, ok := args[KeySelection].(string)
	if !ok {
		if args.Has(KeySelection) {
			return nil, fmt.Errorf("%w: selection must be a string, got %T", ErrInvalidRecord, args[KeySelection])
		}
		if len(children) > 0 {
			selection = children[0].ID()
		}
	}
	pa := baseArgs(args)
	pa[param.ArgChildren] = children
	pa[param.ArgSelection] = selection
	return l.factory.New(pa)
}

func (l *Loader) buildList(args dispatch.Args, key string) ([]param.Parameter, error) {
	raw, ok := args[key].([]any)
	if !ok && args[key] != nil {
		return nil, fmt.Errorf("%w: %s must be a list, got %T", ErrInvalidRecord, key, args[key])
	}
	path, _ := args[pathKey].(string)
	out := make([]param.Parameter, 0, len(raw))
	for i, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a record, got %T", ErrInvalidRecord, key, i, item)
		}
		child, err := l.build(rec, path)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}
