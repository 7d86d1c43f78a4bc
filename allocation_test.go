package gnucash

import (
	"math"
	"testing"
)

func TestAccountCategory(t *testing.T) {
	cases := []struct {
		path, want string
	}{
		{"Assets:Investments:Brokerage:ACME", "Brokerage"},
		{"Assets:Brokerage:ACME", "Brokerage"},
		{"Assets:ACME", "ACME"},
		{"ACME", "ACME"},
	}
	for _, tc := range cases {
		if got := accountCategory(tc.path); got != tc.want {
			t.Errorf("accountCategory(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestAllocation(t *testing.T) {
	b, _, t1, t2 := investmentFixture(t)
	b.listing("sec-beta", "BETA")
	b.account("retirement", "Retirement", AccountAsset, "assets", "cur-usd")
	b.account("beta", "BETA", AccountStock, "retirement", "sec-beta")
	b.trade("cash", "beta", t1, 400, 4)
	b.price("sec-beta", t1, 100)

	e := b.engine("USD")
	slices := e.Allocation(t2)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	// ACME is worth 600, BETA 400; sorted descending.
	if slices[0].Category != "Brokerage" || slices[0].Value != 600 {
		t.Errorf("first slice = %+v, want Brokerage 600", slices[0])
	}
	if slices[1].Category != "Retirement" || slices[1].Value != 400 {
		t.Errorf("second slice = %+v, want Retirement 400", slices[1])
	}

	var sum float64
	for _, s := range slices {
		sum += s.Percent
	}
	if math.Abs(sum-100) > 0.1 {
		t.Errorf("percents sum to %v, want ~100", sum)
	}
	if math.Abs(slices[0].Percent-60) > 1e-9 {
		t.Errorf("Brokerage percent = %v, want 60", slices[0].Percent)
	}
}

func TestRiskBand(t *testing.T) {
	cases := []struct {
		percent float64
		want    RiskBand
	}{
		{0, RiskLow},
		{10, RiskLow},
		{10.01, RiskMedium},
		{20, RiskMedium},
		{20.01, RiskHigh},
		{100, RiskHigh},
	}
	for _, tc := range cases {
		if got := riskBand(tc.percent); got != tc.want {
			t.Errorf("riskBand(%v) = %s, want %s", tc.percent, got, tc.want)
		}
	}
}

func TestCashBuckets(t *testing.T) {
	b, _, _, t2 := investmentFixture(t)
	e := b.engine("USD")

	buckets, summary := e.CashBuckets(t2)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	bucket := buckets[0]
	if bucket.Parent != "Assets:Investments:Brokerage" {
		t.Errorf("parent = %q", bucket.Parent)
	}
	// $500 idle cash next to a $600 position: 500/1100 = 45.45% cash.
	if bucket.Cash != 500 || bucket.InvestmentValue != 600 {
		t.Errorf("bucket = %+v, want cash 500 investment 600", bucket)
	}
	if math.Abs(bucket.CashPercent-45.4545454545) > 1e-6 {
		t.Errorf("cash percent = %v", bucket.CashPercent)
	}
	if bucket.Risk != RiskHigh {
		t.Errorf("risk = %s, want high", bucket.Risk)
	}
	if summary.TotalCash != 500 || summary.TotalInvestment != 600 || summary.Risk != RiskHigh {
		t.Errorf("summary = %+v", summary)
	}
}

func TestCashBucketsForeignCash(t *testing.T) {
	b, _, _, t2 := investmentFixture(t)
	eur := b.currency("cur-eur", "EUR")
	b.account("eurcash", "EUR Cash", AccountCash, "brokerage", eur.GUID)
	b.post("eurcash", t2, 100, 100)
	b.price(eur.GUID, t2, 1.10)

	e := b.engine("USD")
	buckets, _ := e.CashBuckets(t2)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	// 500 USD + 100 EUR at 1.10.
	if buckets[0].Cash != 610 {
		t.Errorf("cash = %v, want 610", buckets[0].Cash)
	}
}

func TestSectorExposures(t *testing.T) {
	b, _, _, t2 := investmentFixture(t)
	e := b.engine("USD")

	meta := NewMemoryStore()
	meta.SetMetadata("sec-acme", &CommodityMetadata{SectorWeights: []SectorWeight{
		{Sector: "Technology", Weight: 0.75},
		{Sector: "Industrials", Weight: 0.25},
	}})

	exposures := e.SectorExposures(t2, meta)
	if len(exposures) != 2 {
		t.Fatalf("got %d exposures, want 2", len(exposures))
	}
	if exposures[0].Sector != "Technology" || exposures[0].Value != 450 {
		t.Errorf("first = %+v, want Technology 450", exposures[0])
	}
	if exposures[1].Sector != "Industrials" || exposures[1].Value != 150 {
		t.Errorf("second = %+v, want Industrials 150", exposures[1])
	}
	if math.Abs(exposures[0].Percent-75) > 1e-6 {
		t.Errorf("Technology percent = %v, want 75", exposures[0].Percent)
	}
}

// Commodities without metadata are skipped but still count toward the
// grand total, so the known sectors report their true share.
func TestSectorExposuresPartialMetadata(t *testing.T) {
	b, _, t1, t2 := investmentFixture(t)
	b.listing("sec-beta", "BETA")
	b.account("beta", "BETA", AccountStock, "brokerage", "sec-beta")
	b.trade("cash", "beta", t1, 200, 2)
	b.price("sec-beta", t1, 100)

	e := b.engine("USD")
	meta := NewMemoryStore()
	meta.SetMetadata("sec-acme", &CommodityMetadata{SectorWeights: []SectorWeight{
		{Sector: "Technology", Weight: 1},
	}})

	exposures := e.SectorExposures(t2, meta)
	if len(exposures) != 1 {
		t.Fatalf("got %d exposures, want 1", len(exposures))
	}
	// ACME 600 of an 800 total: BETA's unclassified 200 dilutes the share.
	if exposures[0].Value != 600 {
		t.Errorf("value = %v, want 600", exposures[0].Value)
	}
	if math.Abs(exposures[0].Percent-75) > 1e-6 {
		t.Errorf("percent = %v, want 75", exposures[0].Percent)
	}
}
