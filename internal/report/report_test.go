package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"quote-risk/internal/simulation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStandard(t *testing.T) simulation.Result {
	t.Helper()
	seed := int64(42)
	p := simulation.Parameters{
		MaterialCost:           3500,
		MaterialUncertaintyPct: 12,
		WastePct:               10,
		SetupHours:             4,
		MachiningHours:         35,
		FinishingHours:         5,
		LaborUncertaintyPct:    20,
		LaborRate:              75,
		ToolingCost:            400,
		SubcontractorCost:      800,
		ReworkProbabilityPct:   15,
		OverheadMultiplier:     1.35,
		ProfitMarginMultiplier: 1.15,
		TrialCount:             2000,
		Seed:                   &seed,
	}
	res, err := simulation.NewEngine().Run(context.Background(), p)
	require.NoError(t, err)
	return res
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "$0"},
		{decimal.NewFromInt(999), "$999"},
		{decimal.NewFromInt(12345), "$12,345"},
		{decimal.NewFromInt(-12345), "-$12,345"},
		{decimal.NewFromInt(1234567), "$1,234,567"},
		{decimal.NewFromFloat(12963.375), "$12,963"},
		{decimal.NewFromFloat(12963.5), "$12,964"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}

	assert.Equal(t, "+$250", SignedMoney(decimal.NewFromInt(250)))
	assert.Equal(t, "-$250", SignedMoney(decimal.NewFromInt(-250)))
	assert.Equal(t, "$12,963", Money(12963.375))
}

func TestRecommend(t *testing.T) {
	recs := Recommend(simulation.Summary{Median: 12000.4, P75: 13250.6})
	require.Len(t, recs, 2)

	competitive, conservative := recs[0], recs[1]
	assert.Equal(t, "competitive", competitive.Kind)
	assert.Equal(t, 50, competitive.Confidence)
	assert.True(t, competitive.Amount.Equal(decimal.NewFromInt(12000)))
	assert.True(t, competitive.DeltaFromMedian.IsZero())

	assert.Equal(t, "conservative", conservative.Kind)
	assert.Equal(t, 75, conservative.Confidence)
	assert.True(t, conservative.Amount.Equal(decimal.NewFromInt(13251)))
	assert.True(t, conservative.DeltaFromMedian.Equal(decimal.NewFromInt(1251)))
	assert.Equal(t, "Risk premium: $1,251", conservative.Risk)
}

func TestBuild(t *testing.T) {
	res := runStandard(t)
	r := Build(res, Options{HistogramBins: 40, IncludeCharts: true})

	assert.Equal(t, 2000, r.Trials)
	assert.Equal(t, int64(42), r.Seed)
	assert.Len(t, r.Percentiles, 5)
	assert.Len(t, r.Histogram.Bins, 40)
	assert.Equal(t, 2000, r.Histogram.Total)
	assert.Len(t, r.CDF, 101)
	assert.Nil(t, r.Costs)
	assert.Empty(t, r.Warnings)

	require.NotNil(t, r.Charts)
	assert.Contains(t, r.Charts.Histogram, "xychart-beta")
	assert.Contains(t, r.Charts.CDF, "Cumulative Probability")

	withCosts := Build(res, Options{IncludeCosts: true})
	assert.Nil(t, withCosts.Charts)
	assert.Len(t, withCosts.Costs, 2000)
}

func TestBuild_Warnings(t *testing.T) {
	costs := []float64{-500, 100, 200, 4000}
	res := simulation.Result{
		Costs:          costs,
		Summary:        simulation.Summarize(costs),
		NegativeTrials: 1,
	}
	r := Build(res, Options{})

	require.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0], "1 of 4 trials produced a negative total")
	assert.Contains(t, r.Warnings[1], "half the mean")
}

func TestRenderText(t *testing.T) {
	r := Build(runStandard(t), Options{})

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, false))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[", "colors must be off")
	assert.Contains(t, out, "Manufacturing Quote Risk Analysis")
	assert.Contains(t, out, "COMPETITIVE QUOTE  "+FormatMoney(r.Recommendations[0].Amount))
	assert.Contains(t, out, "CONSERVATIVE QUOTE  "+FormatMoney(r.Recommendations[1].Amount))
	assert.Contains(t, out, "Nominal (no risk)")
	assert.Contains(t, out, "$12,963")

	buf.Reset()
	require.NoError(t, RenderText(&buf, r, true))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRenderMarkdown(t *testing.T) {
	r := Build(runStandard(t), Options{IncludeCharts: true})

	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, r))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "## Manufacturing Quote Risk Analysis"))
	assert.Contains(t, out, "| 50th (Median) | "+FormatMoney(r.Percentiles[2].Value)+" |")
	assert.Equal(t, 2, strings.Count(out, "```mermaid"))
}

func TestRenderHTML(t *testing.T) {
	r := Build(runStandard(t), Options{IncludeCharts: true})

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Equal(t, 3, strings.Count(out, `<pre class="mermaid">`))
	assert.NotContains(t, out, "```")
	assert.Contains(t, out, FormatMoney(r.Recommendations[1].Amount))
}

func TestWriteHTMLFile(t *testing.T) {
	path := t.TempDir() + "/nested/report.html"
	require.NoError(t, WriteHTMLFile(path, Build(runStandard(t), Options{})))
}
