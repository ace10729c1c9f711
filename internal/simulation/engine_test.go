package simulation

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func benchmarkJob() Parameters {
	return Parameters{
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
		TrialCount:             10000,
	}
}

func seeded(p Parameters, seed int64) Parameters {
	p.Seed = &seed
	return p
}

func TestEngine_ResultLengthMatchesTrialCount(t *testing.T) {
	for _, n := range []int{1, 2, 255, 1023, 1024, 1025, 5000} {
		p := benchmarkJob()
		p.TrialCount = n
		res, err := NewEngine().Run(context.Background(), seeded(p, 7))
		require.NoError(t, err)
		assert.Len(t, res.Costs, n, "trial count %d", n)
	}
}

func TestEngine_ConcreteScenario(t *testing.T) {
	res, err := NewEngine().Run(context.Background(), seeded(benchmarkJob(), 42))
	require.NoError(t, err)

	s := res.Summary
	assert.Greater(t, s.Mean, 0.0)
	assert.Greater(t, s.Median, 0.0)
	assert.Greater(t, s.P75, s.Median)
	assert.Greater(t, s.P90, s.P75)

	// Nominal formula: (3500*1.10 + 44*75 + 400 + 800) * 1.35 * 1.15.
	assert.InDelta(t, 12963.375, res.Deterministic, 1e-6)
	assert.InEpsilon(t, res.Deterministic, s.Median, 0.10, "median should sit near the nominal quote")
	assert.Equal(t, 0, res.NegativeTrials)
	assert.Equal(t, int64(42), res.Seed)
}

func TestEngine_FixedSeedIsReproducible(t *testing.T) {
	p := seeded(benchmarkJob(), 1234)

	a, err := NewEngine(WithWorkers(1)).Run(context.Background(), p)
	require.NoError(t, err)
	b, err := NewEngine(WithWorkers(8)).Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, a.Costs, b.Costs, "worker count must not change the draws")
	assert.Equal(t, a.Summary, b.Summary)
}

func TestEngine_SetSeed(t *testing.T) {
	e := NewEngine()
	e.SetSeed(99)

	a, err := e.Run(context.Background(), benchmarkJob())
	require.NoError(t, err)
	b, err := e.Run(context.Background(), benchmarkJob())
	require.NoError(t, err)
	assert.Equal(t, a.Costs, b.Costs)

	// A seed on the job wins over the engine seed.
	c, err := e.Run(context.Background(), seeded(benchmarkJob(), 100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), c.Seed)
	assert.NotEqual(t, a.Costs, c.Costs)
}

func TestEngine_UnseededRunReportsSeed(t *testing.T) {
	p := benchmarkJob()
	p.TrialCount = 500

	res, err := NewEngine().Run(context.Background(), p)
	require.NoError(t, err)

	replay, err := NewEngine().Run(context.Background(), seeded(p, res.Seed))
	require.NoError(t, err)
	assert.Equal(t, res.Costs, replay.Costs)
}

func TestEngine_PercentilesAreMonotonic(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		p := seeded(benchmarkJob(), seed)
		p.TrialCount = 2000
		res, err := NewEngine().Run(context.Background(), p)
		require.NoError(t, err)

		s := res.Summary
		assert.LessOrEqual(t, s.Min, s.P10)
		assert.LessOrEqual(t, s.P10, s.P25)
		assert.LessOrEqual(t, s.P25, s.Median)
		assert.LessOrEqual(t, s.Median, s.P75)
		assert.LessOrEqual(t, s.P75, s.P90)
		assert.LessOrEqual(t, s.P90, s.Max)
	}
}

func TestEngine_MaterialUncertaintyWidensDistribution(t *testing.T) {
	var prev float64
	for _, pct := range []float64{0, 5, 12, 25, 40} {
		p := seeded(benchmarkJob(), 2024)
		p.MaterialUncertaintyPct = pct
		res, err := NewEngine().Run(context.Background(), p)
		require.NoError(t, err)

		if pct > 0 {
			assert.Greater(t, res.Summary.StdDev, prev, "std dev at %g%% should exceed the previous level", pct)
		}
		prev = res.Summary.StdDev
	}
}

func TestEngine_ZeroUncertaintyCollapsesToNominal(t *testing.T) {
	p := seeded(benchmarkJob(), 5)
	p.MaterialUncertaintyPct = 0
	p.LaborUncertaintyPct = 0
	p.ReworkProbabilityPct = 0
	p.WastePct = 0

	model := DefaultModel()
	model.OvertimeProbability = 0

	res, err := NewEngine(WithModel(model)).Run(context.Background(), p)
	require.NoError(t, err)

	want := DeterministicTotal(p)
	for i, c := range res.Costs {
		if math.Abs(c-want) > 1e-9 {
			t.Fatalf("trial %d: got %v, want %v", i, c, want)
		}
	}
	assert.InDelta(t, 0, res.Summary.StdDev, 1e-9)
	assert.InDelta(t, want, res.Summary.Median, 1e-9)
}

func TestEngine_NegativeTailIsNotClamped(t *testing.T) {
	p := Parameters{
		MaterialCost:           100,
		MaterialUncertaintyPct: 200,
		OverheadMultiplier:     1,
		ProfitMarginMultiplier: 1,
		TrialCount:             2000,
	}
	res, err := NewEngine().Run(context.Background(), seeded(p, 3))
	require.NoError(t, err)

	assert.Greater(t, res.NegativeTrials, 0)
	assert.Less(t, res.Summary.Min, 0.0)
}

func TestEngine_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"NegativeMaterialCost", func(p *Parameters) { p.MaterialCost = -1 }},
		{"NegativeWaste", func(p *Parameters) { p.WastePct = -5 }},
		{"NegativeLaborUncertainty", func(p *Parameters) { p.LaborUncertaintyPct = -1 }},
		{"ZeroTrials", func(p *Parameters) { p.TrialCount = 0 }},
		{"NaNRate", func(p *Parameters) { p.LaborRate = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := benchmarkJob()
			tt.mutate(&p)
			_, err := NewEngine().Run(context.Background(), p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameters), "got %v", err)
		})
	}
}

func TestEngine_InvalidModel(t *testing.T) {
	m := DefaultModel()
	m.ReworkMinHours, m.ReworkMaxHours = 20, 10

	_, err := NewEngine(WithModel(m)).Run(context.Background(), benchmarkJob())
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestEngine_OutOfRangeValuesAreComputed(t *testing.T) {
	p := seeded(benchmarkJob(), 8)
	p.ReworkProbabilityPct = 250
	p.OverheadMultiplier = 0.5
	p.TrialCount = 1000

	res, err := NewEngine().Run(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, res.Costs, 1000)
}

func TestEngine_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Run(ctx, seeded(benchmarkJob(), 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_OneStreamPerChunk(t *testing.T) {
	var calls atomic.Int32
	factory := func(seed int64, stream uint64) rand.Source {
		calls.Add(1)
		return PCGSource(seed, stream)
	}

	p := seeded(benchmarkJob(), 11)
	p.TrialCount = 2500
	_, err := NewEngine(WithChunkSize(1000), WithSourceFactory(factory)).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEngine_OverflowingTotalIsRejected(t *testing.T) {
	tests := []struct {
		name string
		job  Parameters
	}{
		{"TotalOverflows", Parameters{MaterialCost: 1e308, WastePct: 10, OverheadMultiplier: 2, ProfitMarginMultiplier: 1, TrialCount: 50}},
		{"SpreadOverflows", Parameters{MaterialCost: 1e200, MaterialUncertaintyPct: 10, OverheadMultiplier: 1, ProfitMarginMultiplier: 1, TrialCount: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine().Run(context.Background(), seeded(tt.job, 1))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameters)

			var invalid *InvalidParametersError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Problems[0], "float64")
		})
	}
}
