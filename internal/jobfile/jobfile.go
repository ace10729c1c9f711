// Package jobfile reads and writes job parameter files. YAML is the native
// format; JSON files parse as well since YAML is a superset.
package jobfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"quote-risk/internal/simulation"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned for a file with no document in it.
var ErrEmpty = errors.New("job file is empty")

// Load reads the job at path. Optional fields are left unset so the caller
// can apply its own defaults.
func Load(path string) (simulation.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return simulation.Parameters{}, fmt.Errorf("failed to read job file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return simulation.Parameters{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a single job document, rejecting unknown keys so that a typo
// does not silently fall back to a zero value.
func Parse(data []byte) (simulation.Parameters, error) {
	var p simulation.Parameters

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, ErrEmpty
		}
		return p, fmt.Errorf("failed to parse job: %w", err)
	}
	return p, nil
}

// Write encodes p as YAML.
func Write(w io.Writer, p simulation.Parameters) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return enc.Close()
}

// Save writes p to path, creating or truncating the file.
func Save(path string, p simulation.Parameters) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create job file: %w", err)
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
