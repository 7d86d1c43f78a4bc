package gnucash

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AllocationSlice is one display grouping of investment value.
type AllocationSlice struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Percent  float64 `json:"percent"`
}

// accountCategory extracts the display category from a colon-delimited
// account path: the second-to-last segment (the immediate parent folder)
// when the path has at least 3 segments, else the last segment.
func accountCategory(path string) string {
	segments := strings.Split(path, ":")
	if n := len(segments); n >= 3 {
		return segments[n-2]
	}
	return segments[len(segments)-1]
}

// Allocation groups open holdings by account category, sorted by value
// descending. Percentages are not re-normalized beyond float rounding.
func (e *Engine) Allocation(asOf Date) []AllocationSlice {
	totals := make(map[string]decimal.Decimal)
	var order []string
	var grand decimal.Decimal
	for _, h := range e.Holdings(asOf) {
		category := accountCategory(h.Account)
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] = totals[category].Add(h.MarketValue.value)
		grand = grand.Add(h.MarketValue.value)
	}

	out := make([]AllocationSlice, 0, len(order))
	for _, category := range order {
		value := totals[category]
		slice := AllocationSlice{Category: category, Value: round2(value)}
		if grand.IsPositive() {
			slice.Percent = value.Div(grand).InexactFloat64() * 100
		}
		out = append(out, slice)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// RiskBand classifies how much of an investment bucket idles as cash.
type RiskBand string

const (
	RiskLow    RiskBand = "low"
	RiskMedium RiskBand = "medium"
	RiskHigh   RiskBand = "high"
)

// riskBand applies the banding cuts. Boundaries are inclusive on the lower
// band: exactly 20 is medium, exactly 10 is low.
func riskBand(cashPercent float64) RiskBand {
	switch {
	case cashPercent > 20:
		return RiskHigh
	case cashPercent > 10:
		return RiskMedium
	default:
		return RiskLow
	}
}

// CashBucket pairs a parent account's aggregate investment value with the
// un-invested cash sitting in sibling BANK/ASSET/CASH accounts.
type CashBucket struct {
	ParentGUID      string   `json:"parentGuid"`
	Parent          string   `json:"parent"`
	Cash            float64  `json:"cash"`
	InvestmentValue float64  `json:"investmentValue"`
	CashPercent     float64  `json:"cashPercent"`
	Risk            RiskBand `json:"risk"`
}

// CashSummary is the portfolio-wide view of the same measure.
type CashSummary struct {
	TotalCash       float64  `json:"totalCash"`
	TotalInvestment float64  `json:"totalInvestment"`
	CashPercent     float64  `json:"cashPercent"`
	Risk            RiskBand `json:"risk"`
}

// cashBalance folds an account's dated splits into its native-currency
// balance as of the date, converted to the base currency.
func (e *Engine) cashBalance(a *Account, asOf Date) decimal.Decimal {
	var balance decimal.Decimal
	for _, s := range e.book.splits {
		if s.AccountGUID != a.GUID || s.PostDate.IsZero() || s.PostDate.After(asOf) {
			continue
		}
		balance = balance.Add(s.Quantity)
	}
	currency, ok := e.book.AccountCurrency(a)
	if !ok || currency == e.base {
		return balance
	}
	return balance.Mul(e.rates.AsOf(currency, asOf))
}

// CashBuckets detects un-invested cash: for every investment account's
// parent, the balances of sibling BANK/ASSET/CASH accounts are summed and
// paired with the parent's aggregate investment market value.
func (e *Engine) CashBuckets(asOf Date) ([]CashBucket, CashSummary) {
	investment := make(map[string]decimal.Decimal) // by parent guid
	var order []string
	for _, a := range e.book.Accounts() {
		if !e.book.IsInvestmentAccount(a) || a.ParentGUID == "" {
			continue
		}
		if _, seen := investment[a.ParentGUID]; !seen {
			order = append(order, a.ParentGUID)
		}
		h := e.computeHolding(a, asOf)
		investment[a.ParentGUID] = investment[a.ParentGUID].Add(h.MarketValue.value)
	}

	var buckets []CashBucket
	var totalCash, totalInvestment decimal.Decimal
	for _, parentGUID := range order {
		var cash decimal.Decimal
		for _, siblingGUID := range e.book.Children(parentGUID) {
			sibling := e.book.Account(siblingGUID)
			switch sibling.Type {
			case AccountBank, AccountAsset, AccountCash:
				cash = cash.Add(e.cashBalance(sibling, asOf))
			}
		}
		value := investment[parentGUID]
		bucket := CashBucket{
			ParentGUID:      parentGUID,
			Parent:          e.book.Path(parentGUID),
			Cash:            round2(cash),
			InvestmentValue: round2(value),
		}
		if total := cash.Add(value); total.IsPositive() {
			bucket.CashPercent = cash.Div(total).InexactFloat64() * 100
		}
		bucket.Risk = riskBand(bucket.CashPercent)
		buckets = append(buckets, bucket)
		totalCash = totalCash.Add(cash)
		totalInvestment = totalInvestment.Add(value)
	}

	summary := CashSummary{
		TotalCash:       round2(totalCash),
		TotalInvestment: round2(totalInvestment),
	}
	if total := totalCash.Add(totalInvestment); total.IsPositive() {
		summary.CashPercent = totalCash.Div(total).InexactFloat64() * 100
	}
	summary.Risk = riskBand(summary.CashPercent)
	return buckets, summary
}

// SectorExposure is portfolio value allocated to one industry sector.
type SectorExposure struct {
	Sector  string  `json:"sector"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// SectorExposures spreads each holding's market value across its
// commodity's weighted sectors and sums per sector. A commodity with no
// metadata degrades to a partial result: its value is skipped and logged,
// and the rest of the report still computes.
func (e *Engine) SectorExposures(asOf Date, meta MetadataSource) []SectorExposure {
	totals := make(map[string]decimal.Decimal)
	var order []string
	var grand decimal.Decimal

	for _, row := range e.Consolidated(asOf) {
		grand = grand.Add(row.MarketValue.value)
		md, ok := meta.CommodityMetadata(row.CommodityGUID)
		if !ok || md == nil || len(md.SectorWeights) == 0 {
			e.log.Warn().Str("commodity", row.CommodityGUID).Msg("no sector metadata, commodity excluded from exposure")
			continue
		}
		var weightSum float64
		for _, sw := range md.SectorWeights {
			weightSum += sw.Weight
		}
		if weightSum <= 0 {
			e.log.Warn().Str("commodity", row.CommodityGUID).Msg("sector weights sum to zero, commodity excluded from exposure")
			continue
		}
		for _, sw := range md.SectorWeights {
			share := decimal.NewFromFloat(sw.Weight / weightSum)
			if _, seen := totals[sw.Sector]; !seen {
				order = append(order, sw.Sector)
			}
			totals[sw.Sector] = totals[sw.Sector].Add(row.MarketValue.value.Mul(share))
		}
	}

	out := make([]SectorExposure, 0, len(order))
	for _, sector := range order {
		value := totals[sector]
		exposure := SectorExposure{Sector: sector, Value: round2(value)}
		if grand.IsPositive() {
			exposure.Percent = value.Div(grand).InexactFloat64() * 100
		}
		out = append(out, exposure)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}
