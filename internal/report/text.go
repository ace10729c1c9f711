package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type palette struct {
	title, label, good, caution, warn *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		title:   color.New(color.Bold, color.FgCyan),
		label:   color.New(color.Faint),
		good:    color.New(color.FgGreen, color.Bold),
		caution: color.New(color.FgYellow, color.Bold),
		warn:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.title, p.label, p.good, p.caution, p.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// RenderText writes a terminal summary of r.
func RenderText(w io.Writer, r Report, colored bool) error {
	pal := newPalette(colored)
	s := r.Summary

	var b strings.Builder
	pal.title.Fprintln(&b, "Manufacturing Quote Risk Analysis")
	pal.label.Fprintf(&b, "%d trials, seed %d\n\n", r.Trials, r.Seed)

	pal.title.Fprintln(&b, "Key Results")
	fmt.Fprintf(&b, "  %-24s %s\n", "Expected Cost", Money(s.Mean))
	fmt.Fprintf(&b, "  %-24s %s\n", "Median (50%)", Money(s.Median))
	fmt.Fprintf(&b, "  %-24s %s  (%s)\n", "Conservative (75%)", Money(s.P75), SignedMoney(Round(s.P75).Sub(Round(s.Median))))
	fmt.Fprintf(&b, "  %-24s %s  (%s)\n", "High Confidence (90%)", Money(s.P90), SignedMoney(Round(s.P90).Sub(Round(s.Median))))
	fmt.Fprintf(&b, "  %-24s %s\n\n", "Nominal (no risk)", Money(r.Deterministic))

	pal.title.Fprintln(&b, "Quoting Recommendations")
	for _, rec := range r.Recommendations {
		c := pal.good
		if rec.Kind == "conservative" {
			c = pal.caution
		}
		c.Fprintf(&b, "  %s  %s\n", rec.Label, FormatMoney(rec.Amount))
		fmt.Fprintf(&b, "    - %d%% confidence level\n", rec.Confidence)
		fmt.Fprintf(&b, "    - Use for: %s\n", rec.UseFor)
		fmt.Fprintf(&b, "    - %s\n", rec.Risk)
	}
	b.WriteString("\n")

	pal.title.Fprintln(&b, "Detailed Statistics")
	for _, row := range r.Percentiles {
		fmt.Fprintf(&b, "  %-16s %s\n", row.Label, FormatMoney(row.Value))
	}
	fmt.Fprintf(&b, "  %-16s %s\n", "Std. deviation", Money(s.StdDev))
	fmt.Fprintf(&b, "  %-16s %s - %s\n", "Range", Money(s.Min), Money(s.Max))

	if len(r.Warnings) > 0 {
		b.WriteString("\n")
		for _, warning := range r.Warnings {
			pal.warn.Fprintf(&b, "  ! %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderMarkdown writes r as a Markdown document with Mermaid charts when present.
func RenderMarkdown(w io.Writer, r Report) error {
	s := r.Summary

	var b strings.Builder
	b.WriteString("## Manufacturing Quote Risk Analysis\n\n")
	fmt.Fprintf(&b, "_Monte Carlo simulation with %d iterations (seed %d)_\n\n", r.Trials, r.Seed)

	b.WriteString("### Key Results\n\n")
	b.WriteString("| Metric | Value | Delta |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Expected Cost | %s | |\n", Money(s.Mean))
	fmt.Fprintf(&b, "| Median (50%%) | %s | |\n", Money(s.Median))
	fmt.Fprintf(&b, "| Conservative (75%%) | %s | %s |\n", Money(s.P75), SignedMoney(Round(s.P75).Sub(Round(s.Median))))
	fmt.Fprintf(&b, "| High Confidence (90%%) | %s | %s |\n\n", Money(s.P90), SignedMoney(Round(s.P90).Sub(Round(s.Median))))

	b.WriteString("### Quoting Recommendations\n\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "**%s: %s**\n\n", rec.Label, FormatMoney(rec.Amount))
		fmt.Fprintf(&b, "- %d%% confidence level\n- Use for: %s\n- %s\n\n", rec.Confidence, rec.UseFor, rec.Risk)
	}

	b.WriteString("### Detailed Statistics\n\n| Percentile | Quote Price |\n|---|---|\n")
	for _, row := range r.Percentiles {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Label, FormatMoney(row.Value))
	}

	if r.Charts != nil {
		for _, chart := range []string{r.Charts.Histogram, r.Charts.CDF} {
			if chart != "" {
				b.WriteString("\n")
				b.WriteString(chart)
				b.WriteString("\n")
			}
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n### Warnings\n\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
