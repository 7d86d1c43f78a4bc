package gnucash

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Closed-position epsilons. Both conditions must hold before a holding is
// hidden: a zero-share position can still carry residual rounding-dust
// market value, and vice versa.
var (
	closedShareEpsilon = decimal.NewFromFloat(0.0001)
	closedValueEpsilon = decimal.NewFromFloat(0.01)
)

// Holding is the position of one investment account in its commodity.
type Holding struct {
	AccountGUID     string   `json:"accountGuid"`
	Account         string   `json:"account"` // colon-joined path
	CommodityGUID   string   `json:"commodityGuid"`
	Symbol          string   `json:"symbol"`
	Shares          Quantity `json:"shares"`
	CostBasis       Money    `json:"costBasis"`
	MarketValue     Money    `json:"marketValue"`
	GainLoss        Money    `json:"gainLoss"`
	GainLossPercent Percent  `json:"gainLossPercent"`
}

// Closed reports whether the position is economically empty and hidden by
// default: both near-zero shares and near-zero market value.
func (h Holding) Closed() bool {
	return h.Shares.value.Abs().LessThan(closedShareEpsilon) &&
		h.MarketValue.value.Abs().LessThan(closedValueEpsilon)
}

// ConsolidatedHolding groups every account holding the same commodity into
// one row, with the per-account breakdown retained as nested detail.
type ConsolidatedHolding struct {
	CommodityGUID   string    `json:"commodityGuid"`
	Symbol          string    `json:"symbol"`
	Shares          Quantity  `json:"shares"`
	CostBasis       Money     `json:"costBasis"`
	MarketValue     Money     `json:"marketValue"`
	GainLoss        Money     `json:"gainLoss"`
	GainLossPercent Percent   `json:"gainLossPercent"`
	Accounts        []Holding `json:"accounts"`
}

// PortfolioSummary is the at-a-glance investment total.
type PortfolioSummary struct {
	TotalValue           float64 `json:"totalValue"`
	TotalCostBasis       float64 `json:"totalCostBasis"`
	TotalGainLoss        float64 `json:"totalGainLoss"`
	TotalGainLossPercent float64 `json:"totalGainLossPercent"`
}

// computeHolding folds every dated split on the account, order-independent.
// Cost basis is the sum of split values: net cash outflow into the
// position, the ledger's definition, not an average-cost or lot method.
func (e *Engine) computeHolding(a *Account, asOf Date) Holding {
	var shares, costBasis decimal.Decimal
	for _, s := range e.book.splits {
		if s.AccountGUID != a.GUID || s.PostDate.IsZero() || s.PostDate.After(asOf) {
			continue
		}
		shares = shares.Add(s.Quantity)
		costBasis = costBasis.Add(s.Value)
	}
	marketValue := shares.Mul(e.PriceAsOf(a.CommodityGUID, asOf))
	h := Holding{
		AccountGUID:   a.GUID,
		Account:       e.book.Path(a.GUID),
		CommodityGUID: a.CommodityGUID,
		Shares:        Quantity{value: shares},
		CostBasis:     Money{value: costBasis, cur: e.base},
		MarketValue:   Money{value: marketValue, cur: e.base},
		GainLoss:      Money{value: marketValue.Sub(costBasis), cur: e.base},
	}
	if c := e.book.Commodity(a.CommodityGUID); c != nil {
		h.Symbol = c.Mnemonic
	}
	h.GainLossPercent = gainLossPercent(h.GainLoss.value, costBasis)
	return h
}

// gainLossPercent is gainLoss / |costBasis| x 100, defined as 0 when the
// cost basis is zero.
func gainLossPercent(gainLoss, costBasis decimal.Decimal) Percent {
	if costBasis.IsZero() {
		return 0
	}
	return Percent(gainLoss.Div(costBasis.Abs()).InexactFloat64() * 100)
}

// allHoldings computes every investment position, closed ones included.
func (e *Engine) allHoldings(asOf Date) []Holding {
	var out []Holding
	for _, a := range e.book.Accounts() {
		if !e.book.IsInvestmentAccount(a) {
			continue
		}
		out = append(out, e.computeHolding(a, asOf))
	}
	sortHoldings(out)
	return out
}

func sortHoldings(hs []Holding) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].MarketValue.value.GreaterThan(hs[j].MarketValue.value)
	})
}

// Holdings returns the open investment positions as of the date, sorted by
// market value descending. Closed positions are hidden.
func (e *Engine) Holdings(asOf Date) []Holding {
	var out []Holding
	for _, h := range e.allHoldings(asOf) {
		if h.Closed() {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Consolidated groups holdings by commodity. Gain/loss and its percentage
// are recomputed from the summed figures, never by summing the per-account
// percentages.
func (e *Engine) Consolidated(asOf Date) []ConsolidatedHolding {
	grouped := make(map[string]*ConsolidatedHolding)
	var order []string
	for _, h := range e.allHoldings(asOf) {
		row := grouped[h.CommodityGUID]
		if row == nil {
			row = &ConsolidatedHolding{
				CommodityGUID: h.CommodityGUID,
				Symbol:        h.Symbol,
				CostBasis:     M(0, e.base),
				MarketValue:   M(0, e.base),
			}
			grouped[h.CommodityGUID] = row
			order = append(order, h.CommodityGUID)
		}
		row.Shares = row.Shares.Add(h.Shares)
		row.CostBasis = row.CostBasis.Add(h.CostBasis)
		row.MarketValue = row.MarketValue.Add(h.MarketValue)
		if !h.Closed() {
			row.Accounts = append(row.Accounts, h)
		}
	}

	var out []ConsolidatedHolding
	for _, guid := range order {
		row := grouped[guid]
		row.GainLoss = row.MarketValue.Sub(row.CostBasis)
		row.GainLossPercent = gainLossPercent(row.GainLoss.value, row.CostBasis.value)
		sortHoldings(row.Accounts)
		probe := Holding{Shares: row.Shares, MarketValue: row.MarketValue}
		if probe.Closed() {
			continue
		}
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MarketValue.value.GreaterThan(out[j].MarketValue.value)
	})
	return out
}

// Summary totals every investment position, dust included, so the figures
// reconcile with the net-worth series.
func (e *Engine) Summary(asOf Date) PortfolioSummary {
	var value, cost decimal.Decimal
	for _, h := range e.allHoldings(asOf) {
		value = value.Add(h.MarketValue.value)
		cost = cost.Add(h.CostBasis.value)
	}
	gain := value.Sub(cost)
	return PortfolioSummary{
		TotalValue:           round2(value),
		TotalCostBasis:       round2(cost),
		TotalGainLoss:        round2(gain),
		TotalGainLossPercent: float64(gainLossPercent(gain, cost)),
	}
}
