package simulation

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/nvandessel/paramtree/internal/param"
	"github.com/nvandessel/paramtree/internal/utils"
)

// Scenario defines a complete sampling experiment.
type Scenario struct {
	Name string

	// Root is the tree to sample.
	Root param.Parameter

	// Path optionally selects a descendant of Root by dotted id path.
	Path string

	// Perturb, when non-nil, is applied to Root with param.Perturb before
	// sampling. Unknown ids are logged and skipped.
	Perturb any

	// Samples is the number of transforms drawn.
	Samples int
}

// Summary describes one numeric series of draws.
type Summary struct {
	Count      int     `json:"count"`
	Nominal    float64 `json:"nominal"`
	Mean       float64 `json:"mean"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	MeanAbsDev float64 `json:"mean_abs_dev"`
	FracAbove  float64 `json:"frac_above"`
	FracBelow  float64 `json:"frac_below"`
}

// Result captures the draws and their per-path statistics.
type Result struct {
	Scenario string              `json:"scenario"`
	Nominal  any                 `json:"nominal"`
	Samples  []any               `json:"-"`
	Stats    map[string]*Summary `json:"stats"`
}

// Keys returns the stat keys in sorted order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Stats))
	for k := range r.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten maps every number reachable in a transform output to its dotted
// path. Records contribute their field ids, lists their indices in brackets.
// A bare number is keyed by prefix. Non-numeric values are dropped.
func Flatten(prefix string, v any) map[string]float64 {
	out := make(map[string]float64)
	flattenInto(out, prefix, v)
	return out
}

func flattenInto(out map[string]float64, prefix string, v any) {
	switch x := v.(type) {
	case param.Record:
		for _, f := range x {
			flattenInto(out, join(prefix, f.ID), f.Value)
		}
	case map[string]any:
		for k, val := range x {
			flattenInto(out, join(prefix, k), val)
		}
	case []any:
		for i, val := range x {
			flattenInto(out, prefix+"["+strconv.Itoa(i)+"]", val)
		}
	case []float64:
		for i, val := range x {
			out[prefix+"["+strconv.Itoa(i)+"]"] = val
		}
	default:
		if f, ok := utils.AsFloat64(v); ok {
			out[prefix] = f
		}
	}
}

func join(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "." + id
}

// summarize builds a Summary of values around nominal.
func summarize(values []float64, nominal float64) *Summary {
	s := &Summary{Count: len(values), Nominal: nominal}
	if len(values) == 0 {
		return s
	}

	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	var sum, dev float64
	above, below := 0, 0
	for _, v := range values {
		sum += v
		dev += math.Abs(v - nominal)
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		switch {
		case v > nominal:
			above++
		case v < nominal:
			below++
		}
	}

	n := float64(len(values))
	s.Mean = sum / n
	s.MeanAbsDev = dev / n
	s.FracAbove = float64(above) / n
	s.FracBelow = float64(below) / n
	return s
}

// String renders a one-line summary.
func (s Summary) String() string {
	return fmt.Sprintf("n=%d nominal=%g mean=%g range=[%g, %g] mad=%g above=%.3f below=%.3f",
		s.Count, s.Nominal, s.Mean, s.Min, s.Max, s.MeanAbsDev, s.FracAbove, s.FracBelow)
}
