package artifacts

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/datavet/vetctl/internal/stats"
)

// reportRow is one feature rendered side by side for both splits.
type reportRow struct {
	Name  string
	Type  string
	Train string
	Eval  string
}

type reportData struct {
	Dataset     string
	GeneratedAt string
	TrainRows   int
	EvalRows    int
	Rows        []reportRow
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Dataset}} statistics overview</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
td.mono { font-family: monospace; white-space: pre-line; }
</style>
</head>
<body>
<h1>{{.Dataset}}: train vs eval</h1>
<p>Generated {{.GeneratedAt}}. Train rows: {{.TrainRows}}, eval rows: {{.EvalRows}}.</p>
<table>
<tr><th>Feature</th><th>Type</th><th>Train</th><th>Eval</th></tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Type}}</td><td class="mono">{{.Train}}</td><td class="mono">{{.Eval}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// WriteReport renders the static train-vs-eval overview page.
func (s *Store) WriteReport(datasetName string, train, eval stats.DatasetStats) (string, error) {
	data := reportData{
		Dataset:     datasetName,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		TrainRows:   train.NumExamples,
		EvalRows:    eval.NumExamples,
		Rows:        buildRows(train, eval),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("artifacts: render %s: %w", ReportFile, err)
	}
	return s.writeFile(ReportFile, buf.Bytes())
}

// buildRows walks train features in order, then any eval-only features.
func buildRows(train, eval stats.DatasetStats) []reportRow {
	rows := make([]reportRow, 0, len(train.Features))
	seen := make(map[string]struct{}, len(train.Features))
	for _, fs := range train.Features {
		seen[fs.Name] = struct{}{}
		row := reportRow{Name: fs.Name, Type: string(fs.Type), Train: summarize(fs)}
		if es, ok := eval.Feature(fs.Name); ok {
			row.Eval = summarize(es)
		} else {
			row.Eval = "absent"
		}
		rows = append(rows, row)
	}
	for _, fs := range eval.Features {
		if _, ok := seen[fs.Name]; ok {
			continue
		}
		rows = append(rows, reportRow{
			Name:  fs.Name,
			Type:  string(fs.Type),
			Train: "absent",
			Eval:  summarize(fs),
		})
	}
	return rows
}

func summarize(fs stats.FeatureStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "present=%d missing=%d", fs.NumNonMissing, fs.NumMissing)
	if fs.NumInvalid > 0 {
		fmt.Fprintf(&b, " invalid=%d", fs.NumInvalid)
	}
	if fs.Numeric != nil {
		n := fs.Numeric
		fmt.Fprintf(&b, "\nmean=%.4g std=%.4g min=%g max=%g median=%g zeros=%d",
			n.Mean, n.StdDev, n.Min, n.Max, n.Median, n.NumZeros)
	}
	if fs.Categorical != nil {
		c := fs.Categorical
		fmt.Fprintf(&b, "\nunique=%d", c.Unique)
		top := c.Top(stats.TopValueCount)
		if len(top) > 0 {
			parts := make([]string, 0, len(top))
			for _, vc := range top {
				parts = append(parts, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
			}
			fmt.Fprintf(&b, "\ntop: %s", strings.Join(parts, ", "))
		}
	}
	return b.String()
}
