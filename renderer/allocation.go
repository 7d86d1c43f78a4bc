package renderer

import (
	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

// Allocation is the allocation and cash report ready for rendering.
type Allocation struct {
	Date    gnucash.Date              `json:"date"`
	Slices  []gnucash.AllocationSlice `json:"slices"`
	Buckets []gnucash.CashBucket      `json:"buckets"`
	Cash    gnucash.CashSummary       `json:"cash"`
}

const allocationMarkdownTemplate = `# Allocation on {{ .Date }}

{{- if .Slices }}

| Category | Value | Percent |
|:---|---:|---:|
{{- range .Slices }}
| {{ .Category }} | {{ printf "%.2f" .Value }} | {{ printf "%.2f" .Percent }}% |
{{- end }}
{{- else }}

No open positions.
{{- end }}

## Un-invested Cash

Total Cash: **{{ printf "%.2f" .Cash.TotalCash }}** of {{ printf "%.2f" .Cash.TotalInvestment }} invested ({{ printf "%.2f" .Cash.CashPercent }}%, risk {{ .Cash.Risk }})

{{- if .Buckets }}

| Account | Cash | Invested | Cash % | Risk |
|:---|---:|---:|---:|:---|
{{- range .Buckets }}
| {{ .Parent }} | {{ printf "%.2f" .Cash }} | {{ printf "%.2f" .InvestmentValue }} | {{ printf "%.2f" .CashPercent }}% | {{ .Risk }} |
{{- end }}
{{- end }}
`

// RenderAllocation renders the allocation report to a markdown string.
func RenderAllocation(a *Allocation) string {
	return execute("allocation", allocationMarkdownTemplate, a)
}

// Sectors is the sector exposure report ready for rendering.
type Sectors struct {
	Date      gnucash.Date             `json:"date"`
	Exposures []gnucash.SectorExposure `json:"exposures"`
}

const sectorsMarkdownTemplate = `# Sector Exposure on {{ .Date }}

{{- if .Exposures }}

| Sector | Value | Percent |
|:---|---:|---:|
{{- range .Exposures }}
| {{ .Sector }} | {{ printf "%.2f" .Value }} | {{ printf "%.2f" .Percent }}% |
{{- end }}
{{- else }}

No sector metadata available.
{{- end }}
`

// RenderSectors renders the sector exposure report to a markdown string.
func RenderSectors(s *Sectors) string {
	return execute("sectors", sectorsMarkdownTemplate, s)
}
