package sweep

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram has len(Edges) == len(Counts)+1. Bins are half-open except the
// last, which includes the maximum.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// NewHistogram bins xs into bins equal-width bins spanning [min, max].
func NewHistogram(xs []float64, bins int) Histogram {
	if bins <= 0 {
		bins = DefaultBins
	}
	h := Histogram{Edges: make([]float64, bins+1), Counts: make([]float64, bins)}
	if len(xs) == 0 {
		floats.Span(h.Edges, 0, 1)
		return h
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	floats.Span(h.Edges, lo, hi)

	dividers := append([]float64(nil), h.Edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	stat.Histogram(h.Counts, dividers, sorted, nil)
	return h
}

func moments(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}
