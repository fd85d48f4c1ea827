// Package units provides a registry of unit conversions to and from SI.
//
// A Registry maps unit names to a pair of converters. Direct conversions
// (ToSI, FromSI) fail for unregistered units, while the converter getters
// (ToSIConverter, FromSIConverter) fall back to a caller-supplied default so
// parameter transformers keep working with units the registry does not know.
//
// A Registry is populated once during startup and read afterwards. It is not
// synchronized: finish all Register calls before sharing it between goroutines.
package units

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownUnit is returned by direct conversions for unregistered units.
var ErrUnknownUnit = errors.New("units: unknown unit")

// Converter converts a scalar between a unit and its SI counterpart.
type Converter func(float64) float64

// Identity returns its argument unchanged.
func Identity(v float64) float64 { return v }

// conversion holds the converter pair registered under one or more names.
type conversion struct {
	toSI   Converter
	fromSI Converter
}

// Registry maps unit names to SI conversions.
type Registry struct {
	table map[string]conversion
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string]conversion)}
}

// Register installs the same conversion pair under every name in names.
// Registering an existing name overwrites it.
func (r *Registry) Register(names []string, toSI, fromSI Converter) {
	if toSI == nil || fromSI == nil {
		panic(fmt.Sprintf("units: nil converter registered for %v", names))
	}
	for _, name := range names {
		r.table[name] = conversion{toSI: toSI, fromSI: fromSI}
	}
}

// RegisterScale registers a purely multiplicative unit: v*factor converts to SI.
func (r *Registry) RegisterScale(factor float64, names ...string) {
	r.Register(names,
		func(v float64) float64 { return v * factor },
		func(v float64) float64 { return v / factor },
	)
}

// Has reports whether unit is registered.
func (r *Registry) Has(unit string) bool {
	_, ok := r.table[unit]
	return ok
}

// Units returns the registered unit names in sorted order.
func (r *Registry) Units() []string {
	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToSI converts v from unit into SI.
func (r *Registry) ToSI(v float64, unit string) (float64, error) {
	c, ok := r.table[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return c.toSI(v), nil
}

// FromSI converts v from SI into unit.
func (r *Registry) FromSI(v float64, unit string) (float64, error) {
	c, ok := r.table[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return c.fromSI(v), nil
}

// ToSIConverter returns the to-SI converter for unit, or def when unit is not
// registered. A nil def means Identity.
func (r *Registry) ToSIConverter(unit string, def Converter) Converter {
	if c, ok := r.table[unit]; ok {
		return c.toSI
	}
	if def == nil {
		return Identity
	}
	return def
}

// FromSIConverter returns the from-SI converter for unit, or def when unit is
// not registered. A nil def means Identity.
func (r *Registry) FromSIConverter(unit string, def Converter) Converter {
	if c, ok := r.table[unit]; ok {
		return c.fromSI
	}
	if def == nil {
		return Identity
	}
	return def
}
