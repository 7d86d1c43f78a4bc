package gnucash

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Engine computes point-in-time valuations over an immutable Book snapshot.
// It owns no mutable cross-request state: construct one per request from
// the data the caller fetched up front, then query it.
type Engine struct {
	book   *Book
	base   string // reporting base currency mnemonic
	prices map[string]*PriceTable
	rates  Rates
	log    zerolog.Logger
}

// EngineOption customizes an Engine at construction.
type EngineOption func(*Engine)

// WithLogger makes the engine's graceful degradations observable. The
// default is a no-op logger.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// NewEngine builds an engine over the book with the given base currency.
// It fails only when no ledger data is reachable at all.
func NewEngine(book *Book, baseCurrency string, opts ...EngineOption) (*Engine, error) {
	if book == nil || book.IsEmpty() {
		return nil, ErrNoLedgerData
	}
	e := &Engine{book: book, base: baseCurrency, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.prices = BuildPriceTables(book)
	e.rates = BuildRateTables(book, baseCurrency)
	return e, nil
}

// Book exposes the borrowed ledger snapshot.
func (e *Engine) Book() *Book { return e.book }

// BaseCurrency returns the reporting base currency mnemonic.
func (e *Engine) BaseCurrency() string { return e.base }

// PriceAsOf resolves the commodity's latest known price on or before the
// date, zero when its history starts later.
func (e *Engine) PriceAsOf(commodityGUID string, on Date) decimal.Decimal {
	return e.prices[commodityGUID].AsOf(on)
}

// RateAsOf resolves the conversion rate of one unit of the currency into
// the base currency on the date.
func (e *Engine) RateAsOf(currency string, on Date) decimal.Decimal {
	return e.rates.AsOf(currency, on)
}

// TimePoint is one entry of the net-worth time series. Values are rounded
// to 2 decimal places; the accumulators behind them never are.
type TimePoint struct {
	Date        Date    `json:"date"`
	NetWorth    float64 `json:"netWorth"`
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
}

type splitKind int

const (
	kindBaseAsset splitKind = iota
	kindForeignAsset
	kindBaseLiability
	kindForeignLiability
	kindInvestment
)

type classifiedSplit struct {
	split    Split
	kind     splitKind
	currency string // foreign currency mnemonic, for foreign kinds
}

// relevantSplits classifies every valuation-relevant split once. Splits
// with a null posting date are excluded and counted.
func (e *Engine) relevantSplits() []classifiedSplit {
	var out []classifiedSplit
	dropped := 0
	for _, s := range e.book.Splits(nil) {
		a := e.book.Account(s.AccountGUID)
		investment := e.book.IsInvestmentAccount(a)
		if !investment && !a.Type.IsAssetLike() && !a.Type.IsLiabilityLike() {
			continue
		}
		if s.PostDate.IsZero() {
			dropped++
			continue
		}
		if investment {
			out = append(out, classifiedSplit{split: s, kind: kindInvestment})
			continue
		}
		currency, ok := e.book.AccountCurrency(a)
		if !ok {
			e.log.Warn().Str("account", a.GUID).Msg("account commodity unresolved, assuming base currency")
			currency = e.base
		}
		liability := a.Type.IsLiabilityLike()
		switch {
		case currency == e.base && liability:
			out = append(out, classifiedSplit{split: s, kind: kindBaseLiability})
		case currency == e.base:
			out = append(out, classifiedSplit{split: s, kind: kindBaseAsset})
		case liability:
			out = append(out, classifiedSplit{split: s, kind: kindForeignLiability, currency: currency})
		default:
			out = append(out, classifiedSplit{split: s, kind: kindForeignAsset, currency: currency})
		}
	}
	if dropped > 0 {
		e.log.Warn().Int("count", dropped).Msg("splits without posting date excluded from valuation")
	}
	return out
}

// Series reconstructs net worth, assets and liabilities at each requested
// date point. Points must be ascending.
//
// The whole split stream is sorted once and folded forward behind a saved
// cursor that is never rewound, so the cost is O(splits + points x foreign
// currencies) instead of re-scanning the ledger per point. That bound is a
// functional requirement: it is what keeps multi-year monthly series
// responsive.
func (e *Engine) Series(points []Date) []TimePoint {
	splits := e.relevantSplits()
	sort.SliceStable(splits, func(i, j int) bool {
		return splits[i].split.PostDate.Before(splits[j].split.PostDate)
	})

	var baseAsset, baseLiability decimal.Decimal
	foreignAsset := make(map[string]decimal.Decimal)
	foreignLiability := make(map[string]decimal.Decimal)
	shares := make(map[string]decimal.Decimal) // by account guid

	out := make([]TimePoint, 0, len(points))
	cursor := 0
	for _, on := range points {
		for cursor < len(splits) && !splits[cursor].split.PostDate.After(on) {
			c := splits[cursor]
			switch c.kind {
			case kindBaseAsset:
				baseAsset = baseAsset.Add(c.split.Quantity)
			case kindBaseLiability:
				baseLiability = baseLiability.Add(c.split.Quantity)
			case kindForeignAsset:
				foreignAsset[c.currency] = foreignAsset[c.currency].Add(c.split.Quantity)
			case kindForeignLiability:
				foreignLiability[c.currency] = foreignLiability[c.currency].Add(c.split.Quantity)
			case kindInvestment:
				guid := c.split.AccountGUID
				shares[guid] = shares[guid].Add(c.split.Quantity)
			}
			cursor++
		}

		assets := baseAsset
		for currency, raw := range foreignAsset {
			assets = assets.Add(raw.Mul(e.rates.AsOf(currency, on)))
		}
		for guid, qty := range shares {
			a := e.book.Account(guid)
			assets = assets.Add(qty.Mul(e.PriceAsOf(a.CommodityGUID, on)))
		}

		// Liabilities are negative-signed raw totals by ledger convention.
		liabilities := baseLiability
		for currency, raw := range foreignLiability {
			liabilities = liabilities.Add(raw.Mul(e.rates.AsOf(currency, on)))
		}

		out = append(out, TimePoint{
			Date:        on,
			NetWorth:    round2(assets.Add(liabilities)),
			Assets:      round2(assets),
			Liabilities: round2(liabilities),
		})
	}
	return out
}

// MonthlySeries builds the month-end valuation grid between from and to
// (plus the final cutoff) and runs Series over it.
func (e *Engine) MonthlySeries(from, to Date) []TimePoint {
	return e.Series(MonthEnds(from, to))
}

// round2 rounds an exact accumulator for the output contract only.
func round2(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }
