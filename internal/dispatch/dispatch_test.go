package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func label(s string) Builder[string] {
	return func(Args) (string, error) { return s, nil }
}

func newVariantRegistry() *Registry[string] {
	r := New(label("leaf"))
	r.Register([]string{"value"}, label("leaf"))
	r.Register([]string{"children"}, label("container"))
	r.Extend([]string{"children"}, []string{"selection"}, label("options"))
	r.Extend([]string{"value"}, []string{"perturbation"}, label("perturbed"))
	r.Extend([]string{"children"}, []string{"size"}, label("broadcaster"))
	return r
}

func TestDispatchPicksMostSpecific(t *testing.T) {
	r := newVariantRegistry()

	tests := []struct {
		name string
		args Args
		want string
	}{
		{"value only", Args{"value": 1.0}, "leaf"},
		{"value with metadata", Args{"value": 1.0, "units": "cm", "name": "x"}, "leaf"},
		{"children", Args{"children": nil}, "container"},
		{"options", Args{"children": nil, "selection": "a"}, "options"},
		{"perturbed", Args{"value": 1.0, "perturbation": 0.1}, "perturbed"},
		{"broadcaster", Args{"children": nil, "size": 3}, "broadcaster"},
		{"nothing matches", Args{"name": "x"}, "leaf"},
		{"empty", Args{}, "leaf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Dispatch(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatchAmbiguous(t *testing.T) {
	r := newVariantRegistry()

	_, err := r.Dispatch(Args{"children": nil, "selection": "a", "size": 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguous))

	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, [][]string{{"children", "selection"}, {"children", "size"}}, amb.Candidates)
	assert.Equal(t, []string{"children", "selection", "size"}, amb.Keys)
	assert.Contains(t, err.Error(), "{children, selection} and {children, size}")

	_, err = r.Dispatch(Args{"children": nil, "value": 1})
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestBuilderReceivesFullArgs(t *testing.T) {
	var seen Args
	r := New(label("fallback"))
	r.Register([]string{"a"}, func(args Args) (string, error) {
		seen = args
		return "a", nil
	})

	_, err := r.Dispatch(Args{"a": 1, "extra": "kept"})
	require.NoError(t, err)
	assert.Equal(t, "kept", seen["extra"])
}

func TestBuilderErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := New(label("fallback"))
	r.Register([]string{"a"}, func(Args) (string, error) { return "", boom })

	_, err := r.Dispatch(Args{"a": 1})
	assert.ErrorIs(t, err, boom)
}

func TestMatch(t *testing.T) {
	r := newVariantRegistry()

	sig, err := r.Match([]string{"size", "children", "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"children", "size"}, sig)

	sig, err = r.Match([]string{"name"})
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestSignatures(t *testing.T) {
	r := newVariantRegistry()
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, [][]string{
		{"children"},
		{"value"},
		{"children", "selection"},
		{"children", "size"},
		{"perturbation", "value"},
	}, r.Signatures())
}

func TestRegistrationErrorsPanic(t *testing.T) {
	r := newVariantRegistry()

	assert.Panics(t, func() { r.Register([]string{"value"}, label("again")) }, "duplicate")
	assert.Panics(t, func() { r.Register([]string{"selection", "children"}, label("again")) }, "duplicate, unsorted")
	assert.Panics(t, func() { r.Register(nil, label("empty")) }, "empty")
	assert.Panics(t, func() { r.Register([]string{"x"}, nil) }, "nil builder")
	assert.Panics(t, func() { r.Extend([]string{"options"}, []string{"x"}, label("x")) }, "unknown base")
	assert.Panics(t, func() { New[string](nil) }, "nil fallback")
}

func TestPrefixNodeIsNotASignature(t *testing.T) {
	r := New(label("fallback"))
	r.Register([]string{"a", "b"}, label("ab"))

	got, err := r.Dispatch(Args{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	assert.Panics(t, func() { r.Extend([]string{"a"}, []string{"c"}, label("ac")) })
}

func TestArgsHelpers(t *testing.T) {
	args := Args{"b": nil, "a": 1}
	assert.True(t, args.Has("b"))
	assert.False(t, args.Has("c"))
	assert.Equal(t, []string{"a", "b"}, args.Keys())
}
