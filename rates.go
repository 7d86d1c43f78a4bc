package gnucash

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RateTable holds the exchange-rate series of one foreign currency into the
// base currency, sorted descending by date. It merges two kinds of quotes:
//
//   - direct: price records quoting the foreign currency in the base;
//   - inverse: price records quoting the base in the foreign currency,
//     each value inverted, added only for dates that have no direct quote
//     at that exact date. No interpolation across differing dates is done.
type RateTable struct {
	points []PricePoint
}

// AsOf returns the newest rate with date <= on. When every known rate is
// dated after 'on' it returns the oldest available rate instead: currency
// rates assume old-rate persistence beats zero, because currency balances
// are rarely worthless. This asymmetry with PriceTable.AsOf is intentional.
func (t *RateTable) AsOf(on Date) decimal.Decimal {
	i := sort.Search(len(t.points), func(i int) bool {
		return !t.points[i].Date.After(on)
	})
	if i == len(t.points) {
		// All rates are in the future; fall back to the oldest one.
		return t.points[len(t.points)-1].Value
	}
	return t.points[i].Value
}

func (t *RateTable) Len() int { return len(t.points) }

// Rates maps a foreign currency mnemonic to its rate table.
type Rates map[string]*RateTable

// AsOf resolves the conversion rate of one unit of the given currency into
// the base currency on the given date. A currency with no rate table at
// all resolves to 1, showing foreign balances unconverted rather than
// dropping them.
func (r Rates) AsOf(currency string, on Date) decimal.Decimal {
	t := r[currency]
	if t == nil || len(t.points) == 0 {
		return decimal.NewFromInt(1)
	}
	return t.AsOf(on)
}

// BuildRateTables derives per-currency rate tables from the book's price
// history, targeting the given base currency mnemonic.
func BuildRateTables(b *Book, base string) Rates {
	rates := make(Rates)
	baseCom := b.CommodityByMnemonic(CurrencyNamespace, base)
	if baseCom == nil {
		return rates
	}

	type table struct {
		points []PricePoint
		direct map[Date]struct{}
	}
	merged := make(map[string]*table) // by foreign currency guid

	get := func(guid string) *table {
		t := merged[guid]
		if t == nil {
			t = &table{direct: make(map[Date]struct{})}
			merged[guid] = t
		}
		return t
	}

	// Direct quotes first: foreign commodity priced in the base currency.
	for _, p := range b.Prices() {
		com := b.Commodity(p.CommodityGUID)
		if com == nil || !com.IsCurrency() || com.GUID == baseCom.GUID {
			continue
		}
		if p.CurrencyGUID != baseCom.GUID {
			continue
		}
		t := get(com.GUID)
		t.points = append(t.points, PricePoint{Date: p.Date, Value: p.Value})
		t.direct[p.Date] = struct{}{}
	}

	// Inverse quotes: the base priced in a foreign currency, inverted, and
	// only for dates lacking a direct quote at that exact date.
	for _, p := range b.Prices() {
		if p.CommodityGUID != baseCom.GUID {
			continue
		}
		quoteCur := b.Commodity(p.CurrencyGUID)
		if quoteCur == nil || !quoteCur.IsCurrency() || quoteCur.GUID == baseCom.GUID {
			continue
		}
		if p.Value.IsZero() {
			continue // malformed quote, cannot invert
		}
		t := get(quoteCur.GUID)
		if _, have := t.direct[p.Date]; have {
			continue
		}
		t.points = append(t.points, PricePoint{
			Date:  p.Date,
			Value: decimal.NewFromInt(1).Div(p.Value),
		})
	}

	for guid, t := range merged {
		com := b.Commodity(guid)
		rt := &RateTable{points: t.points}
		sort.SliceStable(rt.points, func(i, j int) bool {
			return rt.points[i].Date.After(rt.points[j].Date)
		})
		rates[com.Mnemonic] = rt
	}
	return rates
}
