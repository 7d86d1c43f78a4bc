package renderer

import (
	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

// Holdings is the holdings report ready for rendering.
type Holdings struct {
	Date     gnucash.Date              `json:"date"`
	Summary  gnucash.PortfolioSummary  `json:"summary"`
	Holdings []gnucash.Holding         `json:"holdings"`
}

const holdingsMarkdownTemplate = `# Holdings on {{ .Date }}

Total Market Value: **{{ printf "%.2f" .Summary.TotalValue }}**
Total Gain/Loss: **{{ printf "%+.2f" .Summary.TotalGainLoss }}** ({{ printf "%+.2f" .Summary.TotalGainLossPercent }}%)

{{- if .Holdings }}

| Account | Symbol | Shares | Cost Basis | Market Value | Gain/Loss | % |
|:---|:---|---:|---:|---:|---:|---:|
{{- range .Holdings }}
| {{ .Account }} | {{ .Symbol }} | {{ .Shares }} | {{ .CostBasis }} | {{ .MarketValue }} | {{ .GainLoss.SignedString }} | {{ .GainLossPercent.SignedString }} |
{{- end }}
{{- else }}

No open positions.
{{- end }}
`

// RenderHoldings renders the flat holdings report to a markdown string.
func RenderHoldings(h *Holdings) string {
	return execute("holdings", holdingsMarkdownTemplate, h)
}

// Consolidated is the by-commodity holdings report ready for rendering.
type Consolidated struct {
	Date     gnucash.Date                  `json:"date"`
	Holdings []gnucash.ConsolidatedHolding `json:"holdings"`
}

const consolidatedMarkdownTemplate = `# Consolidated Holdings on {{ .Date }}

| Symbol | Shares | Cost Basis | Market Value | Gain/Loss | % |
|:---|---:|---:|---:|---:|---:|
{{- range .Holdings }}
| {{ .Symbol }} | {{ .Shares }} | {{ .CostBasis }} | {{ .MarketValue }} | {{ .GainLoss.SignedString }} | {{ .GainLossPercent.SignedString }} |
{{- range .Accounts }}
| &nbsp;&nbsp;{{ .Account }} | {{ .Shares }} | {{ .CostBasis }} | {{ .MarketValue }} | {{ .GainLoss.SignedString }} | {{ .GainLossPercent.SignedString }} |
{{- end }}
{{- end }}
`

// RenderConsolidated renders the consolidated holdings report, one row per
// commodity with the per-account breakdown indented below it.
func RenderConsolidated(c *Consolidated) string {
	return execute("consolidated", consolidatedMarkdownTemplate, c)
}
