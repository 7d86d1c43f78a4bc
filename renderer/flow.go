package renderer

import (
	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

const flowMarkdownTemplate = `# Income & Expense Flow {{ .From }} to {{ .To }}

Total Income: **{{ printf "%.2f" .TotalIncome }}**
Total Expenses: **{{ printf "%.2f" .TotalExpenses }}**
Savings: **{{ printf "%+.2f" .Savings }}**

{{- if .Links }}

| From | To | Value |
|:---|:---|---:|
{{- range .Links }}
| {{ (index $.Nodes .Source).Name }} | {{ (index $.Nodes .Target).Name }} | {{ printf "%.2f" .Value }} |
{{- end }}
{{- else }}

No income recorded in this window.
{{- end }}
`

// RenderFlow renders the proportional flow graph as a markdown table of
// apportioned links.
func RenderFlow(f *gnucash.FlowReport) string {
	return execute("flow", flowMarkdownTemplate, f)
}
