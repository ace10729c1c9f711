package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":    Money,
	"fmtMoney": FormatMoney,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Quote Risk Analysis</title>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 64rem; color: #222; }
.metrics { display: flex; gap: 1rem; }
.metric { flex: 1; border: 1px solid #ddd; border-radius: 6px; padding: 0.75rem; }
.metric b { display: block; font-size: 1.5rem; }
.rec { border-left: 4px solid #2b7; padding: 0.5rem 1rem; margin: 0.5rem 0; }
.rec.conservative { border-color: #e90; }
.warn { color: #b00; }
table { border-collapse: collapse; }
td, th { border-bottom: 1px solid #eee; padding: 0.25rem 1rem; text-align: left; }
</style>
</head>
<body>
<h1>Manufacturing Quote Risk Analysis</h1>
<p>Monte Carlo simulation with {{.Report.Trials}} iterations (seed {{.Report.Seed}})</p>
<div class="metrics">
  <div class="metric">Expected Cost<b>{{money .Report.Summary.Mean}}</b></div>
  <div class="metric">Median (50%)<b>{{money .Report.Summary.Median}}</b></div>
  <div class="metric">Conservative (75%)<b>{{money .Report.Summary.P75}}</b>{{.P75Delta}}</div>
  <div class="metric">High Confidence (90%)<b>{{money .Report.Summary.P90}}</b>{{.P90Delta}}</div>
</div>
{{range .Charts}}<pre class="mermaid">
{{.}}
</pre>
{{end}}
<h2>Quoting Recommendations</h2>
{{range .Report.Recommendations}}<div class="rec {{.Kind}}">
  <strong>{{.Label}}</strong>
  <h3>{{fmtMoney .Amount}}</h3>
  <ul><li>{{.Confidence}}% confidence level</li><li>Use for: {{.UseFor}}</li><li>{{.Risk}}</li></ul>
</div>
{{end}}
<h2>Detailed Statistics</h2>
<table>
<tr><th>Percentile</th><th>Quote Price</th></tr>
{{range .Report.Percentiles}}<tr><td>{{.Label}}</td><td>{{fmtMoney .Value}}</td></tr>
{{end}}</table>
{{range .Report.Warnings}}<p class="warn">{{.}}</p>
{{end}}
</body>
</html>
`))

type htmlPage struct {
	Report   Report
	P75Delta string
	P90Delta string
	Charts   []string
}

// RenderHTML writes r as a standalone HTML page. Charts are drawn client side
// by Mermaid.
func RenderHTML(w io.Writer, r Report) error {
	page := htmlPage{
		Report:   r,
		P75Delta: SignedMoney(Round(r.Summary.P75).Sub(Round(r.Summary.Median))),
		P90Delta: SignedMoney(Round(r.Summary.P90).Sub(Round(r.Summary.Median))),
	}
	if r.Charts != nil {
		for _, chart := range []string{r.Charts.Histogram, r.Charts.CDF, r.Charts.Confidence} {
			if body := mermaidBody(chart); body != "" {
				page.Charts = append(page.Charts, body)
			}
		}
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

// WriteHTMLFile renders r into path, creating parent directories.
func WriteHTMLFile(path string, r Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := RenderHTML(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func mermaidBody(chart string) string {
	chart = strings.TrimPrefix(chart, "```mermaid\n")
	chart = strings.TrimSuffix(chart, "```")
	return strings.TrimSpace(chart)
}
