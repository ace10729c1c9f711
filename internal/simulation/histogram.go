package simulation

import (
	"slices"
)

// DefaultHistogramBins matches the resolution of the quoting charts.
const DefaultHistogramBins = 60

// Bin is one equal-width interval of a Histogram. Upper is exclusive except
// for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram tracks how many trials fell into each cost interval.
type Histogram struct {
	Bins  []Bin   `json:"bins"`
	Width float64 `json:"width"`
	Total int     `json:"total"`
}

// NewHistogram buckets costs into equal-width bins spanning [min, max].
func NewHistogram(costs []float64, bins int) Histogram {
	if len(costs) == 0 {
		return Histogram{}
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	lo, hi := slices.Min(costs), slices.Max(costs)
	if lo == hi {
		return Histogram{
			Bins:  []Bin{{Lower: lo, Upper: hi, Count: len(costs)}},
			Total: len(costs),
		}
	}

	width := (hi - lo) / float64(bins)
	h := Histogram{
		Bins:  make([]Bin, bins),
		Width: width,
		Total: len(costs),
	}
	for i := range h.Bins {
		h.Bins[i].Lower = lo + float64(i)*width
		h.Bins[i].Upper = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Upper = hi

	for _, c := range costs {
		idx := int((c - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Bins[idx].Count++
	}
	return h
}

// Mode returns the bin holding the most trials.
func (h Histogram) Mode() (Bin, bool) {
	if len(h.Bins) == 0 {
		return Bin{}, false
	}
	best := h.Bins[0]
	for _, b := range h.Bins[1:] {
		if b.Count > best.Count {
			best = b
		}
	}
	return best, true
}

// CDFPoint is the cost below which Percent of trials fall.
type CDFPoint struct {
	Percent float64 `json:"percent"`
	Value   float64 `json:"value"`
}

// CumulativeDistribution samples the empirical CDF at steps+1 evenly spaced
// percent levels from 0 to 100.
func CumulativeDistribution(costs []float64, steps int) []CDFPoint {
	if len(costs) == 0 {
		return nil
	}
	if steps <= 0 {
		steps = 100
	}

	sorted := slices.Clone(costs)
	slices.Sort(sorted)

	points := make([]CDFPoint, steps+1)
	for i := range points {
		pct := 100 * float64(i) / float64(steps)
		points[i] = CDFPoint{Percent: pct, Value: Percentile(sorted, pct)}
	}
	return points
}
