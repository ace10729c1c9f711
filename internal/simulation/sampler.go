package simulation

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// TrialRecord holds the random draws of a single trial before aggregation.
type TrialRecord struct {
	Index          int     `json:"index"`
	MaterialCost   float64 `json:"material_cost"`
	WasteFraction  float64 `json:"waste_fraction"`
	SetupHours     float64 `json:"setup_hours"`
	MachiningHours float64 `json:"machining_hours"`
	FinishingHours float64 `json:"finishing_hours"`
	Overtime       bool    `json:"overtime"`
	Rework         bool    `json:"rework"`
	ReworkHours    float64 `json:"rework_hours"`
}

// LaborHours is the sum of the three sampled labor phases.
func (r TrialRecord) LaborHours() float64 {
	return r.SetupHours + r.MachiningHours + r.FinishingHours
}

// Sampler draws TrialRecords from a single random stream. It is not safe for
// concurrent use; the engine gives every chunk of trials its own Sampler.
type Sampler struct {
	material  distuv.Normal
	setup     distuv.Normal
	machining distuv.Normal
	finishing distuv.Normal
	overtime  distuv.Bernoulli
	rework    distuv.Bernoulli
	reworkDur distuv.Uniform

	// waste is nil when the triangle is degenerate (waste_pct == 0).
	waste     *distuv.Triangle
	wasteMode float64
}

// NewSampler binds the job's distributions to src. Parameters must already be
// validated; a negative waste percentage would make the triangle undefined.
func NewSampler(p Parameters, m Model, src rand.Source) *Sampler {
	s := &Sampler{
		material:  normal(p.MaterialCost, p.MaterialUncertaintyPct, src),
		setup:     normal(p.SetupHours, p.LaborUncertaintyPct, src),
		machining: normal(p.MachiningHours, p.LaborUncertaintyPct, src),
		finishing: normal(p.FinishingHours, p.LaborUncertaintyPct, src),
		overtime:  distuv.Bernoulli{P: m.OvertimeProbability, Src: src},
		rework:    distuv.Bernoulli{P: p.ReworkProbabilityPct / 100, Src: src},
		reworkDur: distuv.Uniform{Min: m.ReworkMinHours, Max: m.ReworkMaxHours, Src: src},
		wasteMode: p.WastePct / 100,
	}

	lower, upper := p.WastePct*0.5/100, p.WastePct*2/100
	if lower < upper {
		tri := distuv.NewTriangle(lower, upper, s.wasteMode, src)
		s.waste = &tri
	}
	return s
}

func normal(mean, uncertaintyPct float64, src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: mean, Sigma: mean * uncertaintyPct / 100, Src: src}
}

// Sample draws one trial. Draw order is fixed so that a seed determines the
// whole record.
func (s *Sampler) Sample(index int) TrialRecord {
	rec := TrialRecord{Index: index}

	rec.MaterialCost = s.material.Rand()
	if s.waste != nil {
		rec.WasteFraction = s.waste.Rand()
	} else {
		rec.WasteFraction = s.wasteMode
	}

	rec.SetupHours = s.setup.Rand()
	rec.MachiningHours = s.machining.Rand()
	rec.FinishingHours = s.finishing.Rand()

	rec.Overtime = s.overtime.Rand() == 1
	rec.Rework = s.rework.Rand() == 1
	if rec.Rework {
		rec.ReworkHours = s.reworkDur.Rand()
	}
	return rec
}
