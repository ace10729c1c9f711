package jobfile

import (
	"encoding/json"
	"fmt"

	"quote-risk/internal/simulation"

	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaID identifies the job document schema.
const SchemaID = "https://quote-risk.local/schemas/job.json"

// Schema returns the JSON Schema of a job document.
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[simulation.Parameters](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer job schema: %w", err)
	}
	s.ID = SchemaID
	s.Title = "Manufacturing job"
	s.Description = "Inputs of a Monte Carlo cost simulation. Percentages are whole units (12 means 12%)."
	return s, nil
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}
