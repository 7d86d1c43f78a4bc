package renderer

import (
	"strings"

	gnucash "github.com/biker2000on/gnucash-web-sub002"
)

// RenderDashboard renders the full dashboard as one markdown document,
// section by section.
func RenderDashboard(d *gnucash.Dashboard) string {
	var b strings.Builder
	b.WriteString(RenderNetWorth(&NetWorth{BaseCurrency: d.BaseCurrency, Points: d.NetWorth}))
	b.WriteString("\n")
	b.WriteString(RenderHoldings(&Holdings{Date: d.AsOf, Summary: d.Portfolio, Holdings: d.Holdings}))
	b.WriteString("\n")
	b.WriteString(RenderAllocation(&Allocation{Date: d.AsOf, Slices: d.Allocation, Buckets: d.CashBuckets, Cash: d.Cash}))
	if len(d.Sectors) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderSectors(&Sectors{Date: d.AsOf, Exposures: d.Sectors}))
	}
	if d.Flow != nil {
		b.WriteString("\n")
		b.WriteString(RenderFlow(d.Flow))
	}
	return b.String()
}
