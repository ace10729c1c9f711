package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampler_MarginalDistributions(t *testing.T) {
	p := benchmarkJob()
	s := NewSampler(p, DefaultModel(), PCGSource(42, 0))

	const n = 20000
	var material, waste, machining float64
	overtime, rework := 0, 0

	for i := 0; i < n; i++ {
		rec := s.Sample(i)
		assert.Equal(t, i, rec.Index)

		material += rec.MaterialCost
		machining += rec.MachiningHours
		waste += rec.WasteFraction

		if rec.WasteFraction < 0.05 || rec.WasteFraction > 0.20 {
			t.Fatalf("waste fraction %v outside triangle [0.05, 0.20]", rec.WasteFraction)
		}
		if rec.Overtime {
			overtime++
		}
		if rec.Rework {
			rework++
			if rec.ReworkHours < 5 || rec.ReworkHours > 15 {
				t.Fatalf("rework hours %v outside [5, 15]", rec.ReworkHours)
			}
		} else if rec.ReworkHours != 0 {
			t.Fatalf("rework hours %v without a rework event", rec.ReworkHours)
		}
	}

	assert.InEpsilon(t, 3500, material/n, 0.01)
	assert.InEpsilon(t, 35, machining/n, 0.01)
	// Triangle(5%, 10%, 20%) has mean 35/300.
	assert.InDelta(t, 35.0/300, waste/n, 0.002)
	assert.InDelta(t, 0.10, float64(overtime)/n, 0.01)
	assert.InDelta(t, 0.15, float64(rework)/n, 0.01)
}

func TestSampler_SameStreamSameRecords(t *testing.T) {
	p := benchmarkJob()
	a := NewSampler(p, DefaultModel(), PCGSource(9, 3))
	b := NewSampler(p, DefaultModel(), PCGSource(9, 3))
	c := NewSampler(p, DefaultModel(), PCGSource(9, 4))

	differs := false
	for i := 0; i < 100; i++ {
		ra, rb, rc := a.Sample(i), b.Sample(i), c.Sample(i)
		assert.Equal(t, ra, rb)
		if ra != rc {
			differs = true
		}
	}
	assert.True(t, differs, "independent streams should not repeat each other")
}

func TestSampler_DegenerateWaste(t *testing.T) {
	p := benchmarkJob()
	p.WastePct = 0
	s := NewSampler(p, DefaultModel(), PCGSource(1, 0))

	for i := 0; i < 50; i++ {
		assert.Equal(t, 0.0, s.Sample(i).WasteFraction)
	}
}

func TestSampler_ModelOverrides(t *testing.T) {
	p := benchmarkJob()
	p.ReworkProbabilityPct = 100
	m := Model{OvertimeProbability: 1, OvertimeMultiplier: 2, ReworkMinHours: 8, ReworkMaxHours: 8}
	s := NewSampler(p, m, PCGSource(1, 0))

	for i := 0; i < 50; i++ {
		rec := s.Sample(i)
		assert.True(t, rec.Overtime)
		assert.True(t, rec.Rework)
		assert.Equal(t, 8.0, rec.ReworkHours)
	}
}
