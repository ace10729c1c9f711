package simulation

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics of a cost distribution.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`

	// Informational only; not guaranteed non-negative.
	P75MinusMedian float64 `json:"p75_minus_median"`
	P90MinusMedian float64 `json:"p90_minus_median"`
}

// Summarize reduces a vector of trial totals. The input is not modified.
func Summarize(costs []float64) Summary {
	if len(costs) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(costs)
	slices.Sort(sorted)

	s := Summary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P10:    Percentile(sorted, 10),
		P25:    Percentile(sorted, 25),
		Median: Percentile(sorted, 50),
		P75:    Percentile(sorted, 75),
		P90:    Percentile(sorted, 90),
	}
	if len(costs) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(costs, nil)
	} else {
		s.Mean = costs[0]
	}
	s.P75MinusMedian = s.P75 - s.Median
	s.P90MinusMedian = s.P90 - s.Median
	return s
}

// Percentile returns the p-th percentile (0-100) of an ascending slice using
// linear interpolation between closest ranks: with h = (n-1)*p/100 the result
// is x[floor(h)] + (h-floor(h))*(x[floor(h)+1]-x[floor(h)]). This is the
// default rule of NumPy and R (type 7).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	if frac == 0 || sorted[lo] == sorted[lo+1] {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func (s Summary) finite() bool {
	for _, v := range []float64{s.Mean, s.StdDev, s.Min, s.P10, s.P25, s.Median, s.P75, s.P90, s.Max, s.P75MinusMedian, s.P90MinusMedian} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
