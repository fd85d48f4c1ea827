// Package dispatch selects a builder from the set of argument names present
// in a call.
//
// Each builder is registered under a signature: the set of argument names it
// requires. Dispatch picks the signature whose names are all present in the
// call and which no other matching signature strictly extends. Two such
// signatures make the call ambiguous. When nothing matches, the fallback
// builder is used.
//
// Signatures live in a trie keyed on their sorted names, so the registered
// sets that fit a call are found by walking only the edges whose names the
// call supplies.
//
// A Registry is built once and read afterwards; it is not synchronized.
package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAmbiguous is wrapped by AmbiguousError.
var ErrAmbiguous = errors.New("dispatch: ambiguous signature match")

// AmbiguousError lists the equally specific signatures matched by one call.
type AmbiguousError struct {
	Keys       []string
	Candidates [][]string
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = "{" + strings.Join(c, ", ") + "}"
	}
	return fmt.Sprintf("%v: arguments {%s} match %s",
		ErrAmbiguous, strings.Join(e.Keys, ", "), strings.Join(parts, " and "))
}

// Unwrap lets errors.Is match ErrAmbiguous.
func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Args is an open bag of named arguments.
type Args map[string]any

// Has reports whether name is present, even with a nil value.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Keys returns the argument names in sorted order.
func (a Args) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Builder constructs a T from the full argument bag.
type Builder[T any] func(Args) (T, error)

type node[T any] struct {
	next      map[string]*node[T]
	signature []string
	builder   Builder[T]
}

func newNode[T any]() *node[T] {
	return &node[T]{next: make(map[string]*node[T])}
}

// Registry maps signatures to builders.
type Registry[T any] struct {
	root     *node[T]
	fallback Builder[T]
	count    int
}

// New creates a registry that uses fallback when no signature matches.
func New[T any](fallback Builder[T]) *Registry[T] {
	if fallback == nil {
		panic("dispatch: nil fallback builder")
	}
	return &Registry[T]{root: newNode[T](), fallback: fallback}
}

// Register associates b with the signature made of names.
// Registering the same signature twice, an empty signature, or a nil builder
// panics: these are programming errors in the caller's setup.
func (r *Registry[T]) Register(names []string, b Builder[T]) {
	sig := normalize(names)
	if len(sig) == 0 {
		panic("dispatch: empty signature, use the fallback builder instead")
	}
	if b == nil {
		panic(fmt.Sprintf("dispatch: nil builder for signature %v", sig))
	}

	n := r.root
	for _, name := range sig {
		child, ok := n.next[name]
		if !ok {
			child = newNode[T]()
			n.next[name] = child
		}
		n = child
	}
	if n.builder != nil {
		panic(fmt.Sprintf("dispatch: signature %v already registered", sig))
	}
	n.signature = sig
	n.builder = b
	r.count++
}

// Extend registers base plus extra. base must already be registered; calling
// Extend with an unknown base panics.
func (r *Registry[T]) Extend(base, extra []string, b Builder[T]) {
	if r.lookup(normalize(base)) == nil {
		panic(fmt.Sprintf("dispatch: cannot extend unregistered signature %v", normalize(base)))
	}
	names := make([]string, 0, len(base)+len(extra))
	names = append(names, base...)
	names = append(names, extra...)
	r.Register(names, b)
}

// Len returns the number of registered signatures.
func (r *Registry[T]) Len() int { return r.count }

// Signatures returns every registered signature, ordered by size then name.
func (r *Registry[T]) Signatures() [][]string {
	var out [][]string
	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n.builder != nil {
			out = append(out, n.signature)
		}
		for _, name := range sortedKeys(n.next) {
			walk(n.next[name])
		}
	}
	walk(r.root)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return strings.Join(out[i], ",") < strings.Join(out[j], ",")
	})
	return out
}

// Match returns the signature selected for a call supplying keys. A nil
// signature with a nil error means the fallback builder applies.
func (r *Registry[T]) Match(keys []string) ([]string, error) {
	n, err := r.match(keys)
	if err != nil || n == nil {
		return nil, err
	}
	return n.signature, nil
}

// Dispatch selects a builder for args and invokes it with the full bag.
func (r *Registry[T]) Dispatch(args Args) (T, error) {
	n, err := r.match(args.Keys())
	if err != nil {
		var zero T
		return zero, err
	}
	if n == nil {
		return r.fallback(args)
	}
	return n.builder(args)
}

func (r *Registry[T]) match(keys []string) (*node[T], error) {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	var matches []*node[T]
	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n.builder != nil {
			matches = append(matches, n)
		}
		for name, child := range n.next {
			if present[name] {
				walk(child)
			}
		}
	}
	walk(r.root)

	maximal := matches[:0:0]
	for _, m := range matches {
		dominated := false
		for _, o := range matches {
			if o != m && isStrictSubset(m.signature, o.signature) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, m)
		}
	}

	switch len(maximal) {
	case 0:
		return nil, nil
	case 1:
		return maximal[0], nil
	}

	sort.Slice(maximal, func(i, j int) bool {
		return strings.Join(maximal[i].signature, ",") < strings.Join(maximal[j].signature, ",")
	})
	candidates := make([][]string, len(maximal))
	for i, m := range maximal {
		candidates[i] = m.signature
	}
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return nil, &AmbiguousError{Keys: sorted, Candidates: candidates}
}

func (r *Registry[T]) lookup(sig []string) *node[T] {
	n := r.root
	for _, name := range sig {
		child, ok := n.next[name]
		if !ok {
			return nil
		}
		n = child
	}
	if n.builder == nil {
		return nil
	}
	return n
}

// normalize sorts and de-duplicates names.
func normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// isStrictSubset reports whether sorted a is a strict subset of sorted b.
func isStrictSubset(a, b []string) bool {
	if len(a) >= len(b) {
		return false
	}
	i := 0
	for _, name := range b {
		if i < len(a) && a[i] == name {
			i++
		}
	}
	return i == len(a)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
