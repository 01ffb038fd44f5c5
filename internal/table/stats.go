package table

import (
	"math"
	"sort"
)

// NumStats summarizes a numeric column.
type NumStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// Numbers returns the parseable numeric cells of values, skipping missing ones.
// ok is false when any non-missing cell is not a number.
func Numbers(values []string) (nums []float64, ok bool) {
	nums = make([]float64, 0, len(values))
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		x, isNum := ParseNumber(v)
		if !isNum {
			return nil, false
		}
		nums = append(nums, x)
	}
	return nums, true
}

// Summarize computes count, range, mean, sample std and quartiles.
func Summarize(vals []float64) NumStats {
	s := NumStats{Count: len(vals)}
	if len(vals) == 0 {
		return s
	}
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	// Welford
	var mean, m2 float64
	for i, x := range vals {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if len(vals) > 1 {
		s.Std = math.Sqrt(m2 / float64(len(vals)-1))
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	s.Q1 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q3 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the q-th quantile of sorted values using linear interpolation
// between the closest ranks. Empty input yields NaN.
func Quantile(sorted []float64, q float64) float64 {
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
	if lo == hi || sorted[lo] == sorted[hi] {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}
