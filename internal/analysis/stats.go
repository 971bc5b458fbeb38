package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumSummary holds the four location statistics reported per group.
type NumSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// summarize computes mean, median, min and max of vals. Empty input yields NaN fields.
func summarize(vals []float64) NumSummary {
	if len(vals) == 0 {
		nan := math.NaN()
		return NumSummary{Mean: nan, Median: nan, Min: nan, Max: nan}
	}
	return NumSummary{
		Count:  len(vals),
		Mean:   stat.Mean(vals, nil),
		Median: median(vals),
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
	}
}

// median averages the two middle values for even-length input.
func median(vals []float64) float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
