package engine

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"quote-risk/internal/jobfile"
	"quote-risk/internal/simulation"
)

type GeneratorConfig struct {
	Preset string
	Count  int
	Spread float64 // relative jitter applied to costs and hours, 0.2 = ±20%
	Seed   uint64
}

// Generate derives Count jobs from the preset by scaling each cost and hour
// field independently within ±Spread. Uncertainty percentages and
// multipliers are kept as they are.
func Generate(cfg GeneratorConfig) ([]simulation.Parameters, error) {
	preset, ok := jobfile.Lookup(cfg.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", cfg.Preset)
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", cfg.Count)
	}
	if cfg.Spread < 0 || cfg.Spread >= 1 {
		return nil, fmt.Errorf("spread must be in [0, 1), got %g", cfg.Spread)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(len(cfg.Preset))))
	jitter := func(v float64) float64 {
		return v * (1 + cfg.Spread*(2*rng.Float64()-1))
	}

	jobs := make([]simulation.Parameters, cfg.Count)
	for i := range jobs {
		p := preset.Parameters
		p.MaterialCost = jitter(p.MaterialCost)
		p.SetupHours = jitter(p.SetupHours)
		p.MachiningHours = jitter(p.MachiningHours)
		p.FinishingHours = jitter(p.FinishingHours)
		p.ToolingCost = jitter(p.ToolingCost)
		p.SubcontractorCost = jitter(p.SubcontractorCost)
		seed := int64(cfg.Seed) + int64(i)
		p.Seed = &seed
		jobs[i] = p
	}
	return jobs, nil
}

// Save writes each job to outDir as <preset>-NNN.yaml and returns the paths.
func Save(outDir, preset string, jobs []simulation.Parameters) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(jobs))
	for i, p := range jobs {
		path := filepath.Join(outDir, fmt.Sprintf("%s-%03d.yaml", preset, i+1))
		if err := jobfile.Save(path, p); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
