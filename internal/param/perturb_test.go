package param

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestPerturbLeafReturnsWrapper(t *testing.T) {
	leaf := NewLeaf("k", 5.0)

	got, err := Perturb(leaf, 0.3)
	require.NoError(t, err)
	p, ok := got.(*Perturbed)
	require.True(t, ok)
	assert.Same(t, leaf, p.Leaf())
	assert.Equal(t, 0.3, p.Perturbation())
}

func TestPerturbPerturbedMutatesInPlace(t *testing.T) {
	p := NewPerturbed(NewLeaf("k", 5.0), 0.1)

	got, err := Perturb(p, 0.4)
	require.NoError(t, err)
	assert.Same(t, p, got)
	assert.Equal(t, 0.4, p.Perturbation())
}

func TestPerturbThroughContainer(t *testing.T) {
	plant := newPlant(t)
	var buf bytes.Buffer

	got, err := PerturbLogged(bufferLogger(&buf), plant, map[string]any{
		"temp":    0.1,
		"ghost":   0.5,
		"pump":    map[string]any{"speed": 0.05},
		"phantom": 0.2,
	})
	require.NoError(t, err)
	assert.Same(t, plant, got)

	temp, _ := plant.Get("temp")
	require.Equal(t, KindPerturbed, temp.Kind())
	assert.Equal(t, 25.0, temp.Value(), "raw value kept")

	speed, err := Lookup(plant, "pump.speed")
	require.NoError(t, err)
	assert.Equal(t, KindPerturbed, speed.Kind())

	feed, _ := plant.Get("feed")
	assert.Equal(t, KindLeaf, feed.Kind())

	logs := buf.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "id=ghost")
	assert.Contains(t, logs, "id=phantom")

	// The container transform is now stochastic while values stay put.
	first, err := plant.Transform()
	require.NoError(t, err)
	differs := false
	for i := 0; i < 20 && !differs; i++ {
		next, err := plant.Transform()
		require.NoError(t, err)
		a, _ := first.(Record).Get("temp")
		b, _ := next.(Record).Get("temp")
		differs = a != b
	}
	assert.True(t, differs)
	assert.Equal(t, 25.0, temp.Value())
}

func TestPerturbOptionsChild(t *testing.T) {
	o := newSolver(t)
	_, err := Perturb(o, map[string]float64{"euler": 0.5})
	require.NoError(t, err)
	sel := o.Selected()
	assert.Equal(t, KindPerturbed, sel.Kind())
}

func TestPerturbInvalidPairings(t *testing.T) {
	plant := newPlant(t)

	_, err := Perturb(plant, 0.1)
	assert.ErrorIs(t, err, ErrInvalidPerturbation)

	_, err = Perturb(NewLeaf("k", 1.0), map[string]any{"x": 0.1})
	assert.ErrorIs(t, err, ErrInvalidPerturbation)

	_, err = Perturb(NewLeaf("k", 1.0), "lots")
	assert.ErrorIs(t, err, ErrInvalidPerturbation)

	// A failure inside the map aborts, leaving earlier keys applied.
	_, err = Perturb(plant, map[string]any{"feed": 0.1, "pump": 0.2})
	assert.ErrorIs(t, err, ErrInvalidPerturbation)
	feed, _ := plant.Get("feed")
	assert.Equal(t, KindPerturbed, feed.Kind())
}

func TestPerturbBroadcasterSizeRejected(t *testing.T) {
	b := newBatch(t, 2)
	_, err := Perturb(b, map[string]any{DefaultSizeID: 0.1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	n, err := b.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
