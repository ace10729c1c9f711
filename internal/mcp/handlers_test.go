package mcp

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"quote-risk/internal/config"
	"quote-risk/internal/simulation"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estimateEnvelope struct {
	Data struct {
		Trials          int   `json:"trials"`
		Seed            int64 `json:"seed"`
		Recommendations []struct {
			Kind   string `json:"kind"`
			Amount string `json:"amount"`
		} `json:"recommendations"`
		Charts *struct {
			Histogram string `json:"histogram"`
		} `json:"charts"`
	} `json:"data"`
	Warnings []string `json:"warnings"`
	Guidance []string `json:"guidance"`
}

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.AppConfig{
		Simulation: config.SimulationConfig{
			Trials:        500,
			MaxTrials:     10000,
			Workers:       2,
			ChunkSize:     128,
			HistogramBins: 20,
			Model:         simulation.DefaultModel(),
		},
		EnableMermaidCharts: true,
	}
	return NewServer(cfg, "test")
}

func resultText(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleEstimateJobCost_Preset(t *testing.T) {
	s := testServer(t)
	seed := int64(7)

	res, _, err := s.handleEstimateJobCost(context.Background(), nil, EstimateInput{Preset: "standard", TrialCount: 300, Seed: &seed})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var env estimateEnvelope
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &env))
	assert.Equal(t, 300, env.Data.Trials)
	assert.Equal(t, int64(7), env.Data.Seed)
	require.Len(t, env.Data.Recommendations, 2)
	assert.Equal(t, "competitive", env.Data.Recommendations[0].Kind)
	assert.NotEmpty(t, env.Data.Recommendations[1].Amount)
	require.NotNil(t, env.Data.Charts)
	assert.Contains(t, env.Data.Charts.Histogram, "xychart-beta")
	assert.NotEmpty(t, env.Guidance)
}

func TestHandleEstimateJobCost_JobWins(t *testing.T) {
	s := testServer(t)
	off := false
	job := simulation.Parameters{
		MaterialCost:           100,
		LaborRate:              50,
		SetupHours:             1,
		OverheadMultiplier:     1,
		ProfitMarginMultiplier: 1,
	}

	res, _, err := s.handleEstimateJobCost(context.Background(), nil, EstimateInput{Preset: "prototype", Job: &job, IncludeCharts: &off})
	require.NoError(t, err)

	var env estimateEnvelope
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &env))
	assert.Equal(t, 500, env.Data.Trials, "configured default trial count applies")
	assert.Nil(t, env.Data.Charts)
}

func TestHandleEstimateJobCost_ToolErrors(t *testing.T) {
	s := testServer(t)
	bad := simulation.Parameters{MaterialCost: -1, TrialCount: 10}

	tests := []struct {
		name string
		in   EstimateInput
		want string
	}{
		{"no job", EstimateInput{}, "either 'preset' or 'job' is required"},
		{"unknown preset", EstimateInput{Preset: "nope"}, `unknown preset \"nope\"`},
		{"invalid job", EstimateInput{Job: &bad}, "material_cost"},
		{"over limit", EstimateInput{Preset: "standard", TrialCount: 20000}, "exceeds the limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := s.handleEstimateJobCost(context.Background(), nil, tt.in)
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestHandleEstimateJobCost_OverflowIsToolError(t *testing.T) {
	s := testServer(t)
	seed := int64(1)
	job := simulation.Parameters{
		MaterialCost:           1e308,
		WastePct:               10,
		OverheadMultiplier:     2,
		ProfitMarginMultiplier: 1,
		TrialCount:             50,
		Seed:                   &seed,
	}

	res, _, err := s.handleEstimateJobCost(context.Background(), nil, EstimateInput{Job: &job})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "overflows")
}

func TestTextResult_EncodeFailure(t *testing.T) {
	res := textResult(map[string]float64{"max": math.Inf(1)})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "failed to encode result")
}

func TestHandleEstimateJobCost_Cancelled(t *testing.T) {
	s := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, _, err := s.handleEstimateJobCost(ctx, nil, EstimateInput{Preset: "standard", TrialCount: 5000})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestHandleListJobPresets(t *testing.T) {
	res, _, err := testServer(t).handleListJobPresets(context.Background(), nil, ListPresetsInput{})
	require.NoError(t, err)

	var env struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, "prototype", env.Data[0].Name)
}
