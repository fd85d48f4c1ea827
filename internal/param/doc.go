// Package param models named, unit-aware simulation parameters.
//
// A parameter tree is built from five variants:
//
//   - [Leaf]: a raw value with optional units.
//   - [Container]: an ordered set of child parameters addressed by id.
//   - [Options]: a container whose value is the currently selected child.
//   - [Perturbed]: a leaf whose transform is scaled by a fresh uniform draw
//     in [1-p, 1+p] on every call.
//   - [Broadcaster]: a container transformed n times into n independent records.
//
// Every variant has a stored value ([Parameter.Value]) and a usable value
// ([Parameter.Transform]) obtained by running the parameter's [Transformer].
// Transforms are never cached.
//
// Composite variants wrap a base instead of extending it: an Options or
// Broadcaster wraps a Container and a Perturbed wraps a Leaf, and their
// metadata (id, name, description, transformer) lives on the wrapped base.
//
// # Construction
//
// [New] accepts an open argument bag and picks the variant from the names
// present:
//
//	value                  -> Leaf
//	children               -> Container
//	children, selection    -> Options
//	value, perturbation    -> Perturbed
//	children, size         -> Broadcaster
//
// # Thread Safety
//
// Trees are not synchronized. Callers that share a tree between goroutines
// must lock around it. The default random source behind [Perturbed] is safe
// for concurrent use; seeded sources set with [Perturbed.SetSource] may not be.
package param
