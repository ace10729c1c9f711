package mcp

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Response is the envelope every tool result is wrapped in.
type Response struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
	Guidance []string `json:"guidance,omitempty"`
}

// WrapResponse builds the standard envelope for a tool result.
func WrapResponse(data any, warnings, guidance []string) Response {
	return Response{Data: data, Warnings: warnings, Guidance: guidance}
}

func textResult(v any) *sdk.CallToolResult {
	text, err := formatResult(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode tool result")
		msg, _ := json.Marshal(map[string]string{"error": "failed to encode result: " + err.Error()})
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: string(msg)}},
			IsError: true,
		}
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}

// toolError reports a failure the caller can fix, as opposed to a protocol error.
func toolError(err error, guidance string) *sdk.CallToolResult {
	res := textResult(map[string]any{
		"error":    err.Error(),
		"guidance": guidance,
	})
	res.IsError = true
	return res
}

func formatResult(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
