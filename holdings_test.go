package gnucash

import (
	"math"
	"testing"
)

func TestHoldingsEndToEnd(t *testing.T) {
	b, _, _, t2 := investmentFixture(t)
	e := b.engine("USD")

	hs := e.Holdings(t2)
	if len(hs) != 1 {
		t.Fatalf("got %d holdings, want 1", len(hs))
	}
	h := hs[0]
	if h.Symbol != "ACME" {
		t.Errorf("symbol = %q, want ACME", h.Symbol)
	}
	if h.Account != "Assets:Investments:Brokerage:ACME" {
		t.Errorf("account path = %q", h.Account)
	}
	if !h.Shares.value.Equal(Q(10).value) {
		t.Errorf("shares = %s, want 10", h.Shares)
	}
	if !h.CostBasis.value.Equal(Q(500).value) {
		t.Errorf("cost basis = %s, want 500", h.CostBasis)
	}
	if !h.MarketValue.value.Equal(Q(600).value) {
		t.Errorf("market value = %s, want 600", h.MarketValue)
	}
	if !h.GainLoss.value.Equal(Q(100).value) {
		t.Errorf("gain/loss = %s, want 100", h.GainLoss)
	}
	if math.Abs(float64(h.GainLossPercent)-20.0) > 1e-9 {
		t.Errorf("gain/loss percent = %v, want 20.00", h.GainLossPercent)
	}
}

func TestHoldingsAsOfCutoff(t *testing.T) {
	b, t0, _, _ := investmentFixture(t)
	e := b.engine("USD")

	// Before the purchase no position exists.
	if hs := e.Holdings(t0); len(hs) != 0 {
		t.Errorf("got %d holdings before purchase, want 0", len(hs))
	}
}

func TestHoldingsClosedFilter(t *testing.T) {
	b, _, t1, t2 := investmentFixture(t)
	// Sell everything back at cost on t2: shares to zero, but leave a
	// residual value position in another security.
	b.trade("cash", "acme", t2, -500, -10)

	b.listing("sec-dust", "DUST")
	b.account("dust", "Dust", AccountStock, "brokerage", "sec-dust")
	b.trade("cash", "dust", t1, 1, 0) // zero shares, $1 of cost
	b.price("sec-dust", t1, 1)

	e := b.engine("USD")
	hs := e.Holdings(t2.Add(1))

	for _, h := range hs {
		if h.Symbol == "ACME" {
			t.Error("fully closed ACME position should be hidden")
		}
	}
	// DUST has zero shares and zero market value but nonzero cost basis:
	// both epsilon conditions hold, so it is hidden too.
	for _, h := range hs {
		if h.Symbol == "DUST" {
			t.Error("zero-share zero-value position should be hidden")
		}
	}

	// A position with near-zero shares but real market value stays visible.
	all := e.allHoldings(t2.Add(1))
	found := false
	for _, h := range all {
		if h.Symbol == "DUST" {
			found = true
			if !h.Closed() {
				t.Error("DUST should report Closed")
			}
		}
	}
	if !found {
		t.Fatal("allHoldings must include closed positions")
	}
}

func TestHoldingNotClosedWithResidualValue(t *testing.T) {
	h := Holding{Shares: Q(0), MarketValue: M(0.05, "USD")}
	if h.Closed() {
		t.Error("residual market value above a cent must keep the position open")
	}
	h = Holding{Shares: Q(0.5), MarketValue: M(0, "USD")}
	if h.Closed() {
		t.Error("nonzero shares must keep the position open")
	}
}

func TestConsolidatedAdditivity(t *testing.T) {
	b, _, t1, t2 := investmentFixture(t)
	// Same security held in a second account.
	b.account("cash2", "Cash", AccountBank, "root", "cur-usd")
	b.account("ira", "IRA ACME", AccountStock, "root", "sec-acme")
	b.post("cash2", t1, 300, 300)
	b.trade("cash2", "ira", t1, 250, 5)

	e := b.engine("USD")
	rows := e.Consolidated(t2)
	if len(rows) != 1 {
		t.Fatalf("got %d consolidated rows, want 1", len(rows))
	}
	row := rows[0]
	if !row.Shares.value.Equal(Q(15).value) {
		t.Errorf("shares = %s, want 15", row.Shares)
	}
	if !row.CostBasis.value.Equal(Q(750).value) {
		t.Errorf("cost basis = %s, want 750", row.CostBasis)
	}
	if !row.MarketValue.value.Equal(Q(900).value) {
		t.Errorf("market value = %s, want 900", row.MarketValue)
	}
	if !row.GainLoss.value.Equal(Q(150).value) {
		t.Errorf("gain/loss = %s, want 150", row.GainLoss)
	}
	if math.Abs(float64(row.GainLossPercent)-20.0) > 1e-9 {
		t.Errorf("gain/loss percent = %v, want 20.00", row.GainLossPercent)
	}
	if len(row.Accounts) != 2 {
		t.Errorf("got %d account rows, want 2", len(row.Accounts))
	}
	// Largest position first.
	if row.Accounts[0].AccountGUID != "acme" {
		t.Errorf("accounts not sorted by market value: first is %s", row.Accounts[0].AccountGUID)
	}
}

func TestSummary(t *testing.T) {
	b, _, _, t2 := investmentFixture(t)
	e := b.engine("USD")

	s := e.Summary(t2)
	if s.TotalValue != 600 || s.TotalCostBasis != 500 || s.TotalGainLoss != 100 {
		t.Errorf("summary = %+v, want 600/500/100", s)
	}
	if math.Abs(s.TotalGainLossPercent-20.0) > 1e-9 {
		t.Errorf("total gain/loss percent = %v, want 20.00", s.TotalGainLossPercent)
	}
}

func TestGainLossPercentZeroCost(t *testing.T) {
	if got := gainLossPercent(Q(100).value, Q(0).value); got != 0 {
		t.Errorf("zero cost basis: got %v, want 0", got)
	}
	// Short positions measure against the absolute cost basis.
	if got := gainLossPercent(Q(50).value, Q(-200).value); got != Percent(25) {
		t.Errorf("negative cost basis: got %v, want 25", got)
	}
}

func TestHoldingsExcludesUndatedSplits(t *testing.T) {
	b, _, _, t2 := investmentFixture(t)
	b.book.AddSplit(Split{AccountGUID: "acme", Value: Q(999).value, Quantity: Q(99).value})
	e := b.engine("USD")

	hs := e.Holdings(t2)
	if len(hs) != 1 || !hs[0].Shares.value.Equal(Q(10).value) {
		t.Fatalf("undated split leaked into holdings: %+v", hs)
	}
}
