package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"quote-risk/internal/jobfile"
	"quote-risk/internal/report"
	"quote-risk/internal/simulation"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type paramFlag struct {
	name  string
	usage string
	field func(*simulation.Parameters) *float64
}

var paramFlags = []paramFlag{
	{"material-cost", "base material cost in dollars", func(p *simulation.Parameters) *float64 { return &p.MaterialCost }},
	{"material-uncertainty", "material cost uncertainty in percent", func(p *simulation.Parameters) *float64 { return &p.MaterialUncertaintyPct }},
	{"waste", "nominal material waste in percent", func(p *simulation.Parameters) *float64 { return &p.WastePct }},
	{"setup-hours", "nominal setup hours", func(p *simulation.Parameters) *float64 { return &p.SetupHours }},
	{"machining-hours", "nominal machining hours", func(p *simulation.Parameters) *float64 { return &p.MachiningHours }},
	{"finishing-hours", "nominal finishing hours", func(p *simulation.Parameters) *float64 { return &p.FinishingHours }},
	{"labor-uncertainty", "labor hours uncertainty in percent", func(p *simulation.Parameters) *float64 { return &p.LaborUncertaintyPct }},
	{"labor-rate", "labor rate in dollars per hour", func(p *simulation.Parameters) *float64 { return &p.LaborRate }},
	{"tooling-cost", "tooling and consumables cost in dollars", func(p *simulation.Parameters) *float64 { return &p.ToolingCost }},
	{"subcontractor-cost", "subcontractor cost in dollars", func(p *simulation.Parameters) *float64 { return &p.SubcontractorCost }},
	{"rework-probability", "probability of rework in percent", func(p *simulation.Parameters) *float64 { return &p.ReworkProbabilityPct }},
	{"overhead", "overhead multiplier", func(p *simulation.Parameters) *float64 { return &p.OverheadMultiplier }},
	{"margin", "profit margin multiplier", func(p *simulation.Parameters) *float64 { return &p.ProfitMarginMultiplier }},
}

var simulateOpts struct {
	job      string
	preset   string
	trials   int
	seed     int64
	format   string
	html     string
	open     bool
	noColor  bool
	saveJob  string
	withCost bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a job and print quoting recommendations",
	Long: `Simulate a job and print quoting recommendations.

The job starts from --preset (default "standard") or from --job FILE, and any
parameter flag given on the command line overrides the matching field.`,
	Example: `  quote-risk simulate --preset prototype --seed 42
  quote-risk simulate --job part-118.yaml --format markdown
  quote-risk simulate --machining-hours 50 --html report.html --open`,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	p, err := buildJob(cmd)
	if err != nil {
		return err
	}
	p, err = cfg.Simulation.Prepare(p)
	if err != nil {
		return reportInvalid(cmd.ErrOrStderr(), err)
	}

	if simulateOpts.saveJob != "" {
		if err := jobfile.Save(simulateOpts.saveJob, p); err != nil {
			return err
		}
		log.Info().Str("path", simulateOpts.saveJob).Msg("Job saved")
	}

	res, err := cfg.Simulation.NewEngine().Run(cmd.Context(), p)
	if err != nil {
		return reportInvalid(cmd.ErrOrStderr(), err)
	}

	r := report.Build(res, report.Options{
		HistogramBins: cfg.Simulation.HistogramBins,
		IncludeCharts: cfg.EnableMermaidCharts,
		IncludeCosts:  simulateOpts.withCost,
	})

	out := cmd.OutOrStdout()
	switch simulateOpts.format {
	case "text":
		err = report.RenderText(out, r, !simulateOpts.noColor && !color.NoColor)
	case "markdown", "md":
		err = report.RenderMarkdown(out, r)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	default:
		return fmt.Errorf("unknown format %q (want text, markdown or json)", simulateOpts.format)
	}
	if err != nil {
		return err
	}

	return writeHTML(r)
}

// buildJob assembles the job from the job file or preset and the parameter flags.
func buildJob(cmd *cobra.Command) (simulation.Parameters, error) {
	var p simulation.Parameters
	switch {
	case simulateOpts.job != "":
		loaded, err := jobfile.Load(simulateOpts.job)
		if err != nil {
			return p, err
		}
		p = loaded
	default:
		preset, ok := jobfile.Lookup(simulateOpts.preset)
		if !ok {
			return p, fmt.Errorf("unknown preset %q, run 'quote-risk presets' for the list", simulateOpts.preset)
		}
		p = preset.Parameters
	}

	flags := cmd.Flags()
	for _, pf := range paramFlags {
		if !flags.Changed(pf.name) {
			continue
		}
		v, err := flags.GetFloat64(pf.name)
		if err != nil {
			return p, err
		}
		*pf.field(&p) = v
	}
	if flags.Changed("trials") {
		p.TrialCount = simulateOpts.trials
	}
	if flags.Changed("seed") {
		seed := simulateOpts.seed
		p.Seed = &seed
	}
	return p, nil
}

func writeHTML(r report.Report) error {
	path := simulateOpts.html
	if path == "" {
		if !simulateOpts.open {
			return nil
		}
		path = filepath.Join(cfg.ReportDir, fmt.Sprintf("quote-%s.html", time.Now().Format("20060102-150405")))
	}

	if err := report.WriteHTMLFile(path, r); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("HTML report written")

	if simulateOpts.open {
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open report in browser")
		}
	}
	return nil
}

// reportInvalid lists every validation problem before returning err.
func reportInvalid(w io.Writer, err error) error {
	var invalid *simulation.InvalidParametersError
	if !errors.As(err, &invalid) {
		return err
	}
	fmt.Fprintln(w, "The job cannot be simulated:")
	for _, problem := range invalid.Problems {
		fmt.Fprintf(w, "  - %s\n", problem)
	}
	return simulation.ErrInvalidParameters
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simulateOpts.job, "job", "", "job file (YAML or JSON)")
	f.StringVar(&simulateOpts.preset, "preset", "standard", "built-in job preset, ignored with --job")
	f.IntVar(&simulateOpts.trials, "trials", 0, "number of trials (default from QR_TRIALS)")
	f.Int64Var(&simulateOpts.seed, "seed", 0, "random seed for a reproducible run")
	f.StringVarP(&simulateOpts.format, "format", "f", "text", "output format: text, markdown or json")
	f.StringVar(&simulateOpts.html, "html", "", "also write an HTML report to this file")
	f.BoolVar(&simulateOpts.open, "open", false, "open the HTML report in a browser")
	f.BoolVar(&simulateOpts.noColor, "no-color", false, "disable colored text output")
	f.StringVar(&simulateOpts.saveJob, "save-job", "", "write the effective job to this YAML file")
	f.BoolVar(&simulateOpts.withCost, "include-costs", false, "include every trial total in json output")
	for _, pf := range paramFlags {
		f.Float64(pf.name, 0, pf.usage)
	}
	simulateCmd.MarkFlagsMutuallyExclusive("job", "preset")
	rootCmd.AddCommand(simulateCmd)
}
