package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardFactors(t *testing.T) {
	r := Standard()

	tests := []struct {
		name string
		unit string
		in   float64
		want float64
	}{
		{"centimetre", "cm", 250, 2.5},
		{"gram", "g", 1500, 1.5},
		{"tonne", "t", 2, 2000},
		{"tonne alias", "tonne", 2, 2000},
		{"minute", "min", 2, 120},
		{"hour", "h", 1, 3600},
		{"day", "day", 1, 86400},
		{"km per hour", "km/h", 36, 10},
		{"flux", "LMH", 3600000, 1},
		{"diffusivity", "cm²/s", 1, 1e-4},
		{"area", "cm²", 1e4, 1},
		{"litre", "L", 1000, 1},
		{"millilitre", "mL", 1e6, 1},
		{"cubic centimetre", "cm³", 1e6, 1},
		{"celsius", "°C", 0, 273.15},
		{"kelvin", "K", 300, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ToSI(tt.in, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRoundTripEveryUnit(t *testing.T) {
	r := Standard()
	for _, unit := range r.Units() {
		for _, x := range []float64{-40, 0, 1, 12.5, 1e5} {
			si, err := r.ToSI(x, unit)
			require.NoError(t, err)
			back, err := r.FromSI(si, unit)
			require.NoError(t, err)
			assert.InDelta(t, x, back, 1e-9*math.Max(1, math.Abs(x)), "unit %s", unit)
		}
	}
}

func TestTemperatureIsOffset(t *testing.T) {
	r := Standard()

	k, err := r.ToSI(100, "degC")
	require.NoError(t, err)
	assert.InDelta(t, 373.15, k, 1e-9)

	c, err := r.FromSI(0, "°C")
	require.NoError(t, err)
	assert.InDelta(t, -273.15, c, 1e-9)
}

func TestStandardOmitsAmbiguousSymbols(t *testing.T) {
	r := Standard()
	for _, unit := range []string{"C", "d"} {
		assert.False(t, r.Has(unit), "unit %s", unit)
		_, err := r.ToSI(1, unit)
		assert.ErrorIs(t, err, ErrUnknownUnit, "unit %s", unit)
	}
}

func TestDirectLookupIsStrict(t *testing.T) {
	r := Standard()

	_, err := r.ToSI(1, "furlong")
	assert.True(t, errors.Is(err, ErrUnknownUnit))

	_, err = r.FromSI(1, "furlong")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestConverterGettersAreLenient(t *testing.T) {
	r := Standard()

	assert.Equal(t, 4.2, r.ToSIConverter("furlong", Identity)(4.2))
	assert.Equal(t, 4.2, r.FromSIConverter("furlong", nil)(4.2))

	double := func(v float64) float64 { return 2 * v }
	assert.Equal(t, 8.4, r.ToSIConverter("furlong", double)(4.2))

	assert.InDelta(t, 0.042, r.ToSIConverter("cm", double)(4.2), 1e-12)
	assert.InDelta(t, 420, r.FromSIConverter("cm", double)(4.2), 1e-9)
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.RegisterScale(2, "x")
	r.RegisterScale(3, "x", "y")

	got, err := r.ToSI(1, "x")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
	assert.True(t, r.Has("y"))
	assert.Equal(t, []string{"x", "y"}, r.Units())
}

func TestRegisterNilConverterPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() { r.Register([]string{"bad"}, nil, Identity) })
}
