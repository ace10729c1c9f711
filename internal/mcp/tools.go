package mcp

import (
	"quote-risk/internal/simulation"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// EstimateInput is the argument object of estimate_job_cost.
type EstimateInput struct {
	Preset        string                 `json:"preset,omitempty" jsonschema:"name of a built-in job preset (see list_job_presets); ignored when job is given"`
	Job           *simulation.Parameters `json:"job,omitempty" jsonschema:"full job description; all cost and hour fields are required"`
	TrialCount    int                    `json:"trial_count,omitempty" jsonschema:"overrides the number of Monte Carlo trials"`
	Seed          *int64                 `json:"seed,omitempty" jsonschema:"overrides the random seed for a reproducible run"`
	IncludeCharts *bool                  `json:"include_charts,omitempty" jsonschema:"attach Mermaid charts of the cost distribution (default true)"`
}

// ListPresetsInput is the empty argument object of list_job_presets.
type ListPresetsInput struct{}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "estimate_job_cost",
		Description: "Run a Monte Carlo simulation of the total cost of a manufacturing job (material, waste, labor, overtime, rework, overhead and margin) and return quoting recommendations.\n\n" +
			"Provide either a 'preset' name or a complete 'job'. The result holds the competitive quote (median, 50% confidence), the conservative quote (75th percentile) and the 10/25/50/75/90 percentiles.\n" +
			"STRICT GUARDRAIL: Quote figures ONLY from this tool's output. Do NOT invent percentiles or adjust the numbers yourself; re-run with changed parameters instead.\n" +
			"If the result carries warnings (negative trials, extreme spread), YOU MUST relay them to the user together with the quote.",
	}, s.handleEstimateJobCost)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_job_presets",
		Description: "List the built-in job presets with their full parameters. Guidance: Use a preset as a starting point and pass a modified copy as 'job' to 'estimate_job_cost'.",
	}, s.handleListJobPresets)
}
