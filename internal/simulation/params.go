package simulation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultTrialCount is used when a job does not specify how many trials to run.
const DefaultTrialCount = 10000

// Defaults for the constants embedded in the cost formula.
const (
	DefaultOvertimeProbability = 0.10
	DefaultOvertimeMultiplier  = 1.5
	DefaultReworkMinHours      = 5.0
	DefaultReworkMaxHours      = 15.0
)

// ErrInvalidParameters is matched by every validation failure.
var ErrInvalidParameters = errors.New("invalid parameters")

// Parameters describes one manufacturing job. Percentages are expressed in
// whole units (12 means 12%).
type Parameters struct {
	MaterialCost           float64 `json:"material_cost" yaml:"material_cost" jsonschema:"base material cost in dollars"`
	MaterialUncertaintyPct float64 `json:"material_uncertainty_pct" yaml:"material_uncertainty_pct" jsonschema:"relative standard deviation of material cost, 0-100"`
	WastePct               float64 `json:"waste_pct" yaml:"waste_pct" jsonschema:"nominal material waste percentage (mode of a triangular distribution)"`
	SetupHours             float64 `json:"setup_hours" yaml:"setup_hours" jsonschema:"nominal setup time in hours"`
	MachiningHours         float64 `json:"machining_hours" yaml:"machining_hours" jsonschema:"nominal machining time in hours"`
	FinishingHours         float64 `json:"finishing_hours" yaml:"finishing_hours" jsonschema:"nominal finishing time in hours"`
	LaborUncertaintyPct    float64 `json:"labor_uncertainty_pct" yaml:"labor_uncertainty_pct" jsonschema:"relative standard deviation applied to every labor phase, 0-100"`
	LaborRate              float64 `json:"labor_rate" yaml:"labor_rate" jsonschema:"labor rate in dollars per hour"`
	ToolingCost            float64 `json:"tooling_cost" yaml:"tooling_cost" jsonschema:"tooling and consumables cost in dollars"`
	SubcontractorCost      float64 `json:"subcontractor_cost" yaml:"subcontractor_cost" jsonschema:"subcontractor cost in dollars"`
	ReworkProbabilityPct   float64 `json:"rework_probability_pct" yaml:"rework_probability_pct" jsonschema:"probability that the job needs rework, 0-100"`
	OverheadMultiplier     float64 `json:"overhead_multiplier" yaml:"overhead_multiplier" jsonschema:"overhead multiplier applied to direct costs, usually >= 1"`
	ProfitMarginMultiplier float64 `json:"profit_margin_multiplier" yaml:"profit_margin_multiplier" jsonschema:"profit margin multiplier, usually >= 1"`
	TrialCount             int     `json:"trial_count,omitempty" yaml:"trial_count,omitempty" jsonschema:"number of Monte Carlo trials (default 10000)"`
	Seed                   *int64  `json:"seed,omitempty" yaml:"seed,omitempty" jsonschema:"optional random seed for reproducible runs"`
}

// TotalNominalHours is the sum of the three nominal labor phases.
func (p Parameters) TotalNominalHours() float64 {
	return p.SetupHours + p.MachiningHours + p.FinishingHours
}

// WithDefaults fills zero-valued optional fields.
func (p Parameters) WithDefaults() Parameters {
	if p.TrialCount == 0 {
		p.TrialCount = DefaultTrialCount
	}
	return p
}

// Validate reports values that make sampling undefined. Values that are
// merely outside the usual range (a margin multiplier below 1, a rework
// probability above 100%) are accepted and computed as given.
func (p Parameters) Validate() error {
	var problems []string

	fields := []struct {
		name        string
		value       float64
		nonNegative bool
	}{
		{"material_cost", p.MaterialCost, true},
		{"material_uncertainty_pct", p.MaterialUncertaintyPct, true},
		{"waste_pct", p.WastePct, true},
		{"setup_hours", p.SetupHours, true},
		{"machining_hours", p.MachiningHours, true},
		{"finishing_hours", p.FinishingHours, true},
		{"labor_uncertainty_pct", p.LaborUncertaintyPct, true},
		{"labor_rate", p.LaborRate, false},
		{"tooling_cost", p.ToolingCost, false},
		{"subcontractor_cost", p.SubcontractorCost, false},
		{"rework_probability_pct", p.ReworkProbabilityPct, false},
		{"overhead_multiplier", p.OverheadMultiplier, false},
		{"profit_margin_multiplier", p.ProfitMarginMultiplier, false},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			problems = append(problems, fmt.Sprintf("%s must be a finite number", f.name))
			continue
		}
		if f.nonNegative && f.value < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative (got %g)", f.name, f.value))
		}
	}

	if p.TrialCount <= 0 {
		problems = append(problems, fmt.Sprintf("trial_count must be positive (got %d)", p.TrialCount))
	}

	if len(problems) > 0 {
		return &InvalidParametersError{Problems: problems}
	}
	return nil
}

// Model holds the constants of the cost formula that are not part of a job.
type Model struct {
	OvertimeProbability float64 `json:"overtime_probability"`
	OvertimeMultiplier  float64 `json:"overtime_multiplier"`
	ReworkMinHours      float64 `json:"rework_min_hours"`
	ReworkMaxHours      float64 `json:"rework_max_hours"`
}

// DefaultModel returns the formula constants used in production quoting.
func DefaultModel() Model {
	return Model{
		OvertimeProbability: DefaultOvertimeProbability,
		OvertimeMultiplier:  DefaultOvertimeMultiplier,
		ReworkMinHours:      DefaultReworkMinHours,
		ReworkMaxHours:      DefaultReworkMaxHours,
	}
}

// Validate checks that the model can drive the sampler.
func (m Model) Validate() error {
	var problems []string
	names := []string{"overtime_probability", "overtime_multiplier", "rework_min_hours", "rework_max_hours"}
	for i, v := range []float64{m.OvertimeProbability, m.OvertimeMultiplier, m.ReworkMinHours, m.ReworkMaxHours} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s must be a finite number", names[i]))
		}
	}
	if m.OvertimeMultiplier < 0 {
		problems = append(problems, fmt.Sprintf("overtime_multiplier must not be negative (got %g)", m.OvertimeMultiplier))
	}
	if m.ReworkMinHours > m.ReworkMaxHours {
		problems = append(problems, fmt.Sprintf("rework_min_hours (%g) exceeds rework_max_hours (%g)", m.ReworkMinHours, m.ReworkMaxHours))
	}
	if len(problems) > 0 {
		return &InvalidParametersError{Problems: problems}
	}
	return nil
}

// InvalidParametersError lists every problem found during validation.
type InvalidParametersError struct {
	Problems []string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidParameters, strings.Join(e.Problems, "; "))
}

func (e *InvalidParametersError) Is(target error) bool {
	return target == ErrInvalidParameters
}
