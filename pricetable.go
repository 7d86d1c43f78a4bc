package gnucash

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PricePoint is one dated quote inside a price or rate table.
type PricePoint struct {
	Date  Date
	Value decimal.Decimal
}

// PriceTable holds the historical price series of a single commodity,
// kept sorted descending by date (newest first).
type PriceTable struct {
	points []PricePoint
}

// NewPriceTable builds a table from quotes in any order.
func NewPriceTable(points []PricePoint) *PriceTable {
	t := &PriceTable{points: append([]PricePoint(nil), points...)}
	t.sort()
	return t
}

func (t *PriceTable) sort() {
	sort.SliceStable(t.points, func(i, j int) bool {
		return t.points[i].Date.After(t.points[j].Date)
	})
}

// Add inserts a quote, keeping the descending order.
func (t *PriceTable) Add(on Date, value decimal.Decimal) {
	t.points = append(t.points, PricePoint{Date: on, Value: value})
	t.sort()
}

func (t *PriceTable) Len() int { return len(t.points) }

// AsOf returns the value of the newest price with date <= on.
//
// If the commodity's price history starts after 'on', or there are no
// prices at all, it returns zero: a commodity with no known historical
// price is valued at nothing rather than borrowing a future, look-ahead
// price. This no-look-ahead policy is deliberate.
func (t *PriceTable) AsOf(on Date) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	// points are descending; find the first point at or before 'on'.
	i := sort.Search(len(t.points), func(i int) bool {
		return !t.points[i].Date.After(on)
	})
	if i == len(t.points) {
		return decimal.Zero
	}
	return t.points[i].Value
}

// BuildPriceTables groups the book's price history into one descending
// table per commodity.
func BuildPriceTables(b *Book) map[string]*PriceTable {
	grouped := make(map[string][]PricePoint)
	for _, p := range b.Prices() {
		grouped[p.CommodityGUID] = append(grouped[p.CommodityGUID], PricePoint{Date: p.Date, Value: p.Value})
	}
	tables := make(map[string]*PriceTable, len(grouped))
	for guid, points := range grouped {
		tables[guid] = NewPriceTable(points)
	}
	return tables
}
