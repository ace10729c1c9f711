package jobfile

import (
	"sort"

	"quote-risk/internal/simulation"
)

// Preset is a named, ready-to-run job.
type Preset struct {
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description" yaml:"description"`
	Parameters  simulation.Parameters `json:"parameters" yaml:"parameters"`
}

var presets = map[string]Preset{
	"standard": {
		Name:        "standard",
		Description: "Typical machined part: moderate uncertainty, occasional rework.",
		Parameters: simulation.Parameters{
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
			TrialCount:             simulation.DefaultTrialCount,
		},
	},
	"prototype": {
		Name:        "prototype",
		Description: "First article for a new customer: wide labor spread and frequent rework.",
		Parameters: simulation.Parameters{
			MaterialCost:           1200,
			MaterialUncertaintyPct: 25,
			WastePct:               25,
			SetupHours:             12,
			MachiningHours:         18,
			FinishingHours:         8,
			LaborUncertaintyPct:    45,
			LaborRate:              95,
			ToolingCost:            900,
			SubcontractorCost:      0,
			ReworkProbabilityPct:   40,
			OverheadMultiplier:     1.5,
			ProfitMarginMultiplier: 1.25,
			TrialCount:             simulation.DefaultTrialCount,
		},
	},
	"repeat-order": {
		Name:        "repeat-order",
		Description: "Repeat production run with proven programs and stable material pricing.",
		Parameters: simulation.Parameters{
			MaterialCost:           18000,
			MaterialUncertaintyPct: 5,
			WastePct:               5,
			SetupHours:             2,
			MachiningHours:         120,
			FinishingHours:         16,
			LaborUncertaintyPct:    10,
			LaborRate:              70,
			ToolingCost:            250,
			SubcontractorCost:      2400,
			ReworkProbabilityPct:   3,
			OverheadMultiplier:     1.3,
			ProfitMarginMultiplier: 1.1,
			TrialCount:             simulation.DefaultTrialCount,
		},
	},
}

// Presets returns every preset ordered by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a preset by name.
func Lookup(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}
