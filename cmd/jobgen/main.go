package main

import (
	"flag"
	"fmt"
	"os"

	"quote-risk/cmd/jobgen/engine"
)

func main() {
	preset := flag.String("preset", "standard", "Preset to derive jobs from: standard, prototype, repeat-order")
	outDir := flag.String("out", "./jobs", "Output directory for job files")
	count := flag.Int("count", 10, "Number of jobs to generate")
	spread := flag.Float64("spread", 0.2, "Relative jitter applied to costs and hours")
	seed := flag.Uint64("seed", 1, "Seed for the generator")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Preset: *preset,
		Count:  *count,
		Spread: *spread,
		Seed:   *seed,
	}

	fmt.Printf("Generating %d jobs from preset '%s' (spread ±%.0f%%) to %s...\n", cfg.Count, cfg.Preset, cfg.Spread*100, *outDir)

	jobs, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate jobs: %v\n", err)
		os.Exit(1)
	}
	if _, err := engine.Save(*outDir, cfg.Preset, jobs); err != nil {
		fmt.Printf("Failed to save jobs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
