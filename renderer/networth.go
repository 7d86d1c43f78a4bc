// Package renderer turns engine reports into markdown documents and chart
// images for the CLI and the dashboard.
package renderer

import (
	"fmt"
	"strings"
	"text/template"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

// NetWorth is the net-worth report ready for rendering.
type NetWorth struct {
	BaseCurrency string              `json:"baseCurrency"`
	Points       []gnucash.TimePoint `json:"points"`
}

const netWorthMarkdownTemplate = `# Net Worth ({{ .BaseCurrency }})

| Date | Assets | Liabilities | Net Worth |
|:---|---:|---:|---:|
{{- range .Points }}
| {{ .Date }} | {{ printf "%.2f" .Assets }} | {{ printf "%.2f" .Liabilities }} | {{ printf "%.2f" .NetWorth }} |
{{- end }}
`

// RenderNetWorth renders the net-worth time series to a markdown string.
func RenderNetWorth(n *NetWorth) string {
	return execute("networth", netWorthMarkdownTemplate, n)
}

// execute runs an inline template over data. Template errors surface in the
// output rather than aborting the report.
func execute(name, text string, data any) string {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
