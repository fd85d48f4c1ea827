package simulation

import (
	"math"
	"testing"
)

// AssertSeries fails t unless result has a series named key, and returns it.
func AssertSeries(t testing.TB, result *Result, key string) *Summary {
	t.Helper()
	s, ok := result.Stats[key]
	if !ok {
		t.Fatalf("AssertSeries: no series %q (have %v)", key, result.Keys())
	}
	return s
}

// AssertUniformSpread asserts the profile of a uniform perturbation of
// fraction f: mean absolute deviation near |nominal|*f/2 within tol, and
// the share of draws above the nominal value in [0.45, 0.55].
func AssertUniformSpread(t testing.TB, s *Summary, f, tol float64) {
	t.Helper()
	want := math.Abs(s.Nominal) * f / 2
	if math.Abs(s.MeanAbsDev-want) > tol {
		t.Errorf("AssertUniformSpread: mean abs dev %.6f, want %.6f ± %.4f (%s)", s.MeanAbsDev, want, tol, s)
	}
	if s.FracAbove < 0.45 || s.FracAbove > 0.55 {
		t.Errorf("AssertUniformSpread: share above nominal %.4f not in [0.45, 0.55] (%s)", s.FracAbove, s)
	}
}

// AssertBounded asserts every draw stayed within nominal*(1 ± f).
func AssertBounded(t testing.TB, s *Summary, f float64) {
	t.Helper()
	lo, hi := s.Nominal*(1-f), s.Nominal*(1+f)
	if lo > hi {
		lo, hi = hi, lo
	}
	const eps = 1e-9
	if s.Min < lo-eps || s.Max > hi+eps {
		t.Errorf("AssertBounded: range [%.6f, %.6f] outside [%.6f, %.6f]", s.Min, s.Max, lo, hi)
	}
}

// AssertConstant asserts a series never moved from its nominal value.
func AssertConstant(t testing.TB, s *Summary) {
	t.Helper()
	if s.Min != s.Nominal || s.Max != s.Nominal {
		t.Errorf("AssertConstant: range [%g, %g], want constant %g", s.Min, s.Max, s.Nominal)
	}
}
