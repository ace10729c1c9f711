package simulation

// Breakdown itemises the cost of one trial.
type Breakdown struct {
	Material      float64 `json:"material"`
	Labor         float64 `json:"labor"`
	Tooling       float64 `json:"tooling"`
	Subcontractor float64 `json:"subcontractor"`
	Rework        float64 `json:"rework"`
	Direct        float64 `json:"direct"`
	Total         float64 `json:"total"`
}

// Aggregate prices one trial. Overtime raises the labor rate; rework is
// always billed at the base rate. Negative draws are not clamped.
func Aggregate(rec TrialRecord, p Parameters, m Model) Breakdown {
	b := Breakdown{
		Material:      rec.MaterialCost * (1 + rec.WasteFraction),
		Tooling:       p.ToolingCost,
		Subcontractor: p.SubcontractorCost,
		Rework:        rec.ReworkHours * p.LaborRate,
	}

	rate := p.LaborRate
	if rec.Overtime {
		rate *= m.OvertimeMultiplier
	}
	b.Labor = rec.LaborHours() * rate

	b.Direct = b.Material + b.Labor + b.Tooling + b.Subcontractor + b.Rework
	b.Total = b.Direct * p.OverheadMultiplier * p.ProfitMarginMultiplier
	return b
}

// TotalCost is Aggregate reduced to the quoted total.
func TotalCost(rec TrialRecord, p Parameters, m Model) float64 {
	return Aggregate(rec, p, m).Total
}

// DeterministicTotal prices the job at its nominal values: waste at the mode,
// no overtime and no rework.
func DeterministicTotal(p Parameters) float64 {
	rec := TrialRecord{
		MaterialCost:   p.MaterialCost,
		WasteFraction:  p.WastePct / 100,
		SetupHours:     p.SetupHours,
		MachiningHours: p.MachiningHours,
		FinishingHours: p.FinishingHours,
	}
	return TotalCost(rec, p, Model{})
}
