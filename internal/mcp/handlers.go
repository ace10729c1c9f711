package mcp

import (
	"context"
	"errors"
	"fmt"

	"quote-risk/internal/jobfile"
	"quote-risk/internal/report"
	"quote-risk/internal/simulation"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleEstimateJobCost(ctx context.Context, _ *sdk.CallToolRequest, in EstimateInput) (*sdk.CallToolResult, any, error) {
	p, err := resolveJob(in)
	if err != nil {
		return toolError(err, "Call 'list_job_presets' to see the available presets, or pass a complete 'job'."), nil, nil
	}

	p, err = s.cfg.Simulation.Prepare(p)
	if err != nil {
		return runFailure(err)
	}
	res, err := s.engine.Run(ctx, p)
	if err != nil {
		return runFailure(err)
	}

	includeCharts := s.cfg.EnableMermaidCharts
	if in.IncludeCharts != nil {
		includeCharts = *in.IncludeCharts
	}
	r := report.Build(res, report.Options{
		HistogramBins: s.cfg.Simulation.HistogramBins,
		IncludeCharts: includeCharts,
	})
	log.Info().Int("trials", r.Trials).Int64("seed", r.Seed).Str("median", report.Money(r.Summary.Median)).Msg("estimate_job_cost finished")
	return textResult(WrapResponse(r, r.Warnings, estimateGuidance(r))), nil, nil
}

func runFailure(err error) (*sdk.CallToolResult, any, error) {
	if errors.Is(err, simulation.ErrInvalidParameters) {
		return toolError(err, "Fix the listed fields and call 'estimate_job_cost' again."), nil, nil
	}
	log.Error().Err(err).Msg("estimate_job_cost failed")
	return nil, nil, err
}

func (s *Server) handleListJobPresets(_ context.Context, _ *sdk.CallToolRequest, _ ListPresetsInput) (*sdk.CallToolResult, any, error) {
	return textResult(WrapResponse(jobfile.Presets(), nil, []string{
		"Pass a preset name as 'preset' to 'estimate_job_cost', or copy its parameters into 'job' to adjust them.",
	})), nil, nil
}

// resolveJob picks the explicit job over the preset and applies per-call overrides.
func resolveJob(in EstimateInput) (simulation.Parameters, error) {
	var p simulation.Parameters
	switch {
	case in.Job != nil:
		p = *in.Job
	case in.Preset != "":
		preset, ok := jobfile.Lookup(in.Preset)
		if !ok {
			return p, fmt.Errorf("unknown preset %q", in.Preset)
		}
		p = preset.Parameters
	default:
		return p, errors.New("either 'preset' or 'job' is required")
	}

	if in.TrialCount != 0 {
		p.TrialCount = in.TrialCount
	}
	if in.Seed != nil {
		p.Seed = in.Seed
	}
	return p, nil
}

func estimateGuidance(r report.Report) []string {
	guidance := []string{
		fmt.Sprintf("Competitive quote %s wins more bids but overruns half of the time.", report.FormatMoney(r.Recommendations[0].Amount)),
		fmt.Sprintf("Conservative quote %s covers 75%% of outcomes; use it for new customers or complex jobs.", report.FormatMoney(r.Recommendations[1].Amount)),
		fmt.Sprintf("Pass seed %d to reproduce these exact figures.", r.Seed),
	}
	if r.NegativeTrials > 0 {
		guidance = append(guidance, "Some trials went negative. Lower the uncertainty percentages if that is not realistic for this job.")
	}
	return guidance
}
