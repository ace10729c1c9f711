package visuals

import (
	"fmt"
	"math"
	"strings"

	"quote-risk/internal/simulation"
)

// maxChartBars keeps xychart-beta from overlapping its axis labels.
const maxChartBars = 60

// GenerateCostHistogram creates a Mermaid bar chart of trial counts per cost bin.
// The median, P75 and P90 of s are named in the title and marked by a line
// series that rises to the top of the axis in the bins holding them.
func GenerateCostHistogram(h simulation.Histogram, s simulation.Summary) string {
	if len(h.Bins) == 0 {
		return ""
	}

	bins := mergeBins(h.Bins, maxChartBars)

	var labels []string
	var values []string
	maxVal := 0
	for _, b := range bins {
		labels = append(labels, fmt.Sprintf("\"%s\"", shortMoney(b.Lower)))
		values = append(values, fmt.Sprintf("%d", b.Count))
		if b.Count > maxVal {
			maxVal = b.Count
		}
	}
	top := maxVal + int(math.Max(1, float64(maxVal)*0.2))

	markers := make([]string, len(bins))
	for i := range markers {
		markers[i] = "0"
	}
	for _, v := range []float64{s.Median, s.P75, s.P90} {
		markers[binIndex(bins, v)] = fmt.Sprintf("%d", top)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Cost Distribution (median %s, P75 %s, P90 %s)\"\n",
		shortMoney(s.Median), shortMoney(s.P75), shortMoney(s.P90)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Frequency\" 0 --> %d\n", top))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(markers, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// binIndex returns the bin holding v, clamped to the first and last bin.
func binIndex(bins []simulation.Bin, v float64) int {
	for i, b := range bins {
		if v < b.Upper {
			return i
		}
	}
	return len(bins) - 1
}

// GenerateCostCDF creates a Mermaid line chart of the cumulative probability curve.
func GenerateCostCDF(points []simulation.CDFPoint) string {
	if len(points) == 0 {
		return ""
	}

	// One label every 10% keeps the axis readable.
	var labels []string
	var values []string
	maxVal := 0.0
	for _, p := range points {
		if math.Mod(p.Percent, 10) != 0 {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%.0f%%\"", p.Percent))
		values = append(values, fmt.Sprintf("%.0f", p.Value))
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	if maxVal <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Cumulative Probability\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Quote Price ($)\" 0 --> %d\n", int(math.Ceil(maxVal*1.1))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateConfidenceChart creates a Mermaid bar chart of the quote at each confidence level.
func GenerateConfidenceChart(s simulation.Summary) string {
	if s.P90 <= 0 {
		return ""
	}

	labels := []string{
		"\"10%\"",
		"\"25%\"",
		"\"50% (Competitive)\"",
		"\"75% (Conservative)\"",
		"\"90% (High Confidence)\"",
	}
	values := []string{
		fmt.Sprintf("%.0f", s.P10),
		fmt.Sprintf("%.0f", s.P25),
		fmt.Sprintf("%.0f", s.Median),
		fmt.Sprintf("%.0f", s.P75),
		fmt.Sprintf("%.0f", s.P90),
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Quote by Confidence Level\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Quote Price ($)\" 0 --> %d\n", int(math.Ceil(s.P90*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// mergeBins folds adjacent bins together until at most limit remain.
func mergeBins(bins []simulation.Bin, limit int) []simulation.Bin {
	if len(bins) <= limit {
		return bins
	}
	step := int(math.Ceil(float64(len(bins)) / float64(limit)))
	merged := make([]simulation.Bin, 0, limit)
	for i := 0; i < len(bins); i += step {
		end := min(i+step, len(bins))
		b := simulation.Bin{Lower: bins[i].Lower, Upper: bins[end-1].Upper}
		for _, sub := range bins[i:end] {
			b.Count += sub.Count
		}
		merged = append(merged, b)
	}
	return merged
}

func shortMoney(v float64) string {
	switch {
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
