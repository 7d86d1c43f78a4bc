package gnucash

import (
	"testing"
	"time"
)

func TestRatesAsOfNoTable(t *testing.T) {
	rates := make(Rates)
	if got := rates.AsOf("CHF", Today()); !got.Equal(Q(1).value) {
		t.Errorf("missing table AsOf = %s, want 1 (unconverted)", got)
	}
}

func TestRateTableOldestFallback(t *testing.T) {
	b := newBookBuilder(t)
	eur := b.currency("cur-eur", "EUR")
	b.price(eur.GUID, NewDate(2024, time.June, 1), 1.08)
	b.price(eur.GUID, NewDate(2024, time.July, 1), 1.12)
	rates := BuildRateTables(b.book, "USD")

	t.Run("all rates in the future", func(t *testing.T) {
		// The oldest rate wins, not zero and not the newest.
		if got := rates.AsOf("EUR", NewDate(2024, time.January, 1)); !got.Equal(Q(1.08).value) {
			t.Errorf("AsOf before history = %s, want 1.08", got)
		}
	})
	t.Run("newest at or before date", func(t *testing.T) {
		if got := rates.AsOf("EUR", NewDate(2024, time.June, 15)); !got.Equal(Q(1.08).value) {
			t.Errorf("AsOf mid = %s, want 1.08", got)
		}
		if got := rates.AsOf("EUR", NewDate(2024, time.August, 1)); !got.Equal(Q(1.12).value) {
			t.Errorf("AsOf after = %s, want 1.12", got)
		}
	})
}

func TestBuildRateTablesInverse(t *testing.T) {
	b := newBookBuilder(t)
	eur := b.currency("cur-eur", "EUR")

	d1 := NewDate(2024, time.March, 1)
	d2 := NewDate(2024, time.March, 5)
	d3 := NewDate(2024, time.March, 9)

	// Direct quote on d1: 1 EUR = 1.10 USD.
	b.price(eur.GUID, d1, 1.10)
	// Inverse quotes: 1 USD = 0.8 EUR on d2, plus a conflicting one on d1
	// that must lose to the direct quote.
	b.book.AddPrice(Price{CommodityGUID: "cur-usd", CurrencyGUID: eur.GUID, Date: d2, Value: Q(0.8).value})
	b.book.AddPrice(Price{CommodityGUID: "cur-usd", CurrencyGUID: eur.GUID, Date: d1, Value: Q(0.5).value})
	// Zero-value inverse quote cannot be inverted and is dropped.
	b.book.AddPrice(Price{CommodityGUID: "cur-usd", CurrencyGUID: eur.GUID, Date: d3, Value: Q(0).value})

	rates := BuildRateTables(b.book, "USD")
	table := rates["EUR"]
	if table == nil {
		t.Fatal("no EUR rate table")
	}
	if table.Len() != 2 {
		t.Fatalf("table has %d points, want 2 (direct d1, inverted d2)", table.Len())
	}

	if got := rates.AsOf("EUR", d1); !got.Equal(Q(1.10).value) {
		t.Errorf("AsOf(d1) = %s, want direct 1.10", got)
	}
	if got := rates.AsOf("EUR", d2); !got.Equal(Q(1.25).value) {
		t.Errorf("AsOf(d2) = %s, want inverted 1.25", got)
	}
	if got := rates.AsOf("EUR", d3); !got.Equal(Q(1.25).value) {
		t.Errorf("AsOf(d3) = %s, want 1.25 carried forward past zero quote", got)
	}
}

func TestBuildRateTablesSkipsBaseAndSecurities(t *testing.T) {
	b, _, _, _ := investmentFixture(t)
	rates := BuildRateTables(b.book, "USD")
	if _, ok := rates["USD"]; ok {
		t.Error("base currency must not have a rate table")
	}
	if _, ok := rates["ACME"]; ok {
		t.Error("security prices must not leak into currency rates")
	}
}

func TestBuildRateTablesMissingBase(t *testing.T) {
	b := newBookBuilder(t)
	rates := BuildRateTables(b.book, "JPY")
	if len(rates) != 0 {
		t.Errorf("unknown base currency: got %d tables, want none", len(rates))
	}
}
