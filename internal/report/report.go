package report

import (
	"fmt"

	"quote-risk/internal/simulation"
	"quote-risk/internal/visuals"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Recommendation is a quote at a fixed confidence level.
type Recommendation struct {
	Kind            string          `json:"kind"`
	Label           string          `json:"label"`
	Confidence      int             `json:"confidence_pct"`
	Amount          decimal.Decimal `json:"amount"`
	DeltaFromMedian decimal.Decimal `json:"delta_from_median"`
	UseFor          string          `json:"use_for"`
	Risk            string          `json:"risk"`
}

// PercentileRow is one line of the detailed statistics table.
type PercentileRow struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Charts holds Mermaid renderings of the distribution.
type Charts struct {
	Histogram  string `json:"histogram,omitempty"`
	CDF        string `json:"cdf,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// Report is everything a presentation surface needs from one run.
type Report struct {
	Trials          int                   `json:"trials"`
	Seed            int64                 `json:"seed"`
	Summary         simulation.Summary    `json:"summary"`
	Deterministic   float64               `json:"deterministic_total"`
	NegativeTrials  int                   `json:"negative_trials"`
	Recommendations []Recommendation      `json:"recommendations"`
	Percentiles     []PercentileRow       `json:"percentiles"`
	Histogram       simulation.Histogram  `json:"histogram"`
	CDF             []simulation.CDFPoint `json:"cdf"`
	Charts          *Charts               `json:"charts,omitempty"`
	Warnings        []string              `json:"warnings,omitempty"`
	Costs           []float64             `json:"costs,omitempty"`
	Parameters      simulation.Parameters `json:"parameters"`
	Model           simulation.Model      `json:"model"`
}

// Options controls what Build includes.
type Options struct {
	HistogramBins int
	IncludeCharts bool
	IncludeCosts  bool
}

// Build turns a simulation result into a report.
func Build(res simulation.Result, opts Options) Report {
	s := res.Summary
	r := Report{
		Trials:          len(res.Costs),
		Seed:            res.Seed,
		Summary:         s,
		Deterministic:   res.Deterministic,
		NegativeTrials:  res.NegativeTrials,
		Recommendations: Recommend(s),
		Percentiles: []PercentileRow{
			{Label: "10th", Value: Round(s.P10)},
			{Label: "25th", Value: Round(s.P25)},
			{Label: "50th (Median)", Value: Round(s.Median)},
			{Label: "75th", Value: Round(s.P75)},
			{Label: "90th", Value: Round(s.P90)},
		},
		Histogram:  simulation.NewHistogram(res.Costs, opts.HistogramBins),
		CDF:        simulation.CumulativeDistribution(res.Costs, 100),
		Parameters: res.Parameters,
		Model:      res.Model,
	}

	if opts.IncludeCharts {
		r.Charts = &Charts{
			Histogram:  visuals.GenerateCostHistogram(r.Histogram, s),
			CDF:        visuals.GenerateCostCDF(r.CDF),
			Confidence: visuals.GenerateConfidenceChart(s),
		}
	}
	if opts.IncludeCosts {
		r.Costs = res.Costs
	}

	if res.NegativeTrials > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d of %d trials produced a negative total. Uncertainty percentages this wide let the normal draws cross zero; the values are kept as sampled.", res.NegativeTrials, r.Trials))
	}
	if s.P75MinusMedian < 0 || s.P90MinusMedian < 0 {
		r.Warnings = append(r.Warnings, "Upper percentiles fall below the median. Check the multipliers for values below zero.")
	}
	if s.Mean != 0 && s.StdDev/s.Mean > 0.5 {
		r.Warnings = append(r.Warnings, "Cost spread exceeds half the mean; a single quote carries unusual risk for this job.")
	}
	return r
}

// Recommend returns the competitive (median) and conservative (P75) quotes.
func Recommend(s simulation.Summary) []Recommendation {
	median := Round(s.Median)
	p75 := Round(s.P75)
	return []Recommendation{
		{
			Kind:            "competitive",
			Label:           "COMPETITIVE QUOTE",
			Confidence:      50,
			Amount:          median,
			DeltaFromMedian: decimal.Zero,
			UseFor:          "Competitive bidding",
			Risk:            "50/50 chance of overrun",
		},
		{
			Kind:            "conservative",
			Label:           "CONSERVATIVE QUOTE",
			Confidence:      75,
			Amount:          p75,
			DeltaFromMedian: p75.Sub(median),
			UseFor:          "New customers, complex jobs",
			Risk:            fmt.Sprintf("Risk premium: %s", FormatMoney(p75.Sub(median))),
		},
	}
}

// Round rounds a cost to whole dollars.
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}

// Money formats a cost as whole dollars with thousands separators.
func Money(v float64) string {
	return FormatMoney(Round(v))
}

// FormatMoney renders d as "$12,345" or "-$12,345".
func FormatMoney(d decimal.Decimal) string {
	whole := d.Round(0).IntPart()
	if whole < 0 {
		return "-$" + humanize.Comma(-whole)
	}
	return "$" + humanize.Comma(whole)
}

// SignedMoney renders a delta with an explicit sign.
func SignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatMoney(d)
	}
	return "+" + FormatMoney(d)
}
