package gnucash

import (
	"github.com/rs/zerolog"
)

// Dashboard is the full valuation view for one request: every report the
// web dashboard renders, assembled from a single ledger snapshot so the
// figures reconcile with each other.
type Dashboard struct {
	AsOf         Date                  `json:"asOf"`
	BaseCurrency string                `json:"baseCurrency"`
	NetWorth     []TimePoint           `json:"netWorth"`
	Portfolio    PortfolioSummary      `json:"portfolio"`
	Holdings     []Holding             `json:"holdings"`
	Consolidated []ConsolidatedHolding `json:"consolidated"`
	Allocation   []AllocationSlice     `json:"allocation"`
	CashBuckets  []CashBucket          `json:"cashBuckets"`
	Cash         CashSummary           `json:"cash"`
	Sectors      []SectorExposure      `json:"sectors"`
	Flow         *FlowReport           `json:"flow"`
}

// BuildDashboard loads a ledger snapshot through the store boundary and
// computes every report over the [from, to] window, valued as of to.
//
// Degradation is deliberate: missing prices, rates or sector metadata
// produce partial figures and log lines, never an error. The only fatal
// condition is no ledger data being reachable at all.
func BuildDashboard(store Store, meta MetadataSource, base string, from, to Date, log zerolog.Logger) (*Dashboard, error) {
	book, err := LoadBook(store, log)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(book, base, WithLogger(log))
	if err != nil {
		return nil, err
	}
	return engine.Dashboard(meta, from, to), nil
}

// Dashboard assembles every report from an already-constructed engine.
func (e *Engine) Dashboard(meta MetadataSource, from, to Date) *Dashboard {
	d := &Dashboard{
		AsOf:         to,
		BaseCurrency: e.base,
		NetWorth:     e.MonthlySeries(from, to),
		Portfolio:    e.Summary(to),
		Holdings:     e.Holdings(to),
		Consolidated: e.Consolidated(to),
		Allocation:   e.Allocation(to),
		Flow:         e.Flow(from, to),
	}
	d.CashBuckets, d.Cash = e.CashBuckets(to)
	if meta != nil {
		d.Sectors = e.SectorExposures(to, meta)
	} else {
		e.log.Debug().Msg("no metadata source, sector exposure omitted")
	}
	return d
}
