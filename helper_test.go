package gnucash

import (
	"testing"
	"time"
)

// bookBuilder assembles a test ledger with short helpers. Splits are added
// in pairs against a balancing equity account so fixtures honor the
// zero-sum invariant.
type bookBuilder struct {
	t    *testing.T
	book *Book

	equity *Account
}

func newBookBuilder(t *testing.T) *bookBuilder {
	t.Helper()
	b := &bookBuilder{t: t, book: NewBook()}
	root := b.book.AddAccount(&Account{GUID: "root", Name: "Root", Type: AccountRoot})
	b.equity = b.book.AddAccount(&Account{
		GUID:          "equity",
		Name:          "Opening Balances",
		Type:          AccountEquity,
		ParentGUID:    root.GUID,
		CommodityGUID: "cur-usd",
	})
	b.currency("cur-usd", "USD")
	return b
}

func (b *bookBuilder) currency(guid, mnemonic string) *Commodity {
	return b.book.AddCommodity(&Commodity{GUID: guid, Namespace: CurrencyNamespace, Mnemonic: mnemonic, Fraction: 100})
}

func (b *bookBuilder) listing(guid, mnemonic string) *Commodity {
	return b.book.AddCommodity(&Commodity{GUID: guid, Namespace: "NASDAQ", Mnemonic: mnemonic, Fraction: 1})
}

func (b *bookBuilder) account(guid, name string, kind AccountType, parent, commodity string) *Account {
	return b.book.AddAccount(&Account{GUID: guid, Name: name, Type: kind, ParentGUID: parent, CommodityGUID: commodity})
}

// post records one split on the account with its zero-sum counterpart on
// equity. value is in the transaction currency, quantity in account units.
func (b *bookBuilder) post(account string, on Date, value, quantity float64) {
	b.book.AddSplit(Split{AccountGUID: account, Value: Q(value).value, Quantity: Q(quantity).value, PostDate: on})
	b.book.AddSplit(Split{AccountGUID: b.equity.GUID, Value: Q(-value).value, Quantity: Q(-value).value, PostDate: on})
}

// trade records a purchase or sale: cash and security legs on the given
// accounts, zero-sum by construction.
func (b *bookBuilder) trade(cash, security string, on Date, cost, shares float64) {
	b.book.AddSplit(Split{AccountGUID: cash, Value: Q(-cost).value, Quantity: Q(-cost).value, PostDate: on})
	b.book.AddSplit(Split{AccountGUID: security, Value: Q(cost).value, Quantity: Q(shares).value, PostDate: on})
}

func (b *bookBuilder) price(commodity string, on Date, value float64) {
	b.book.AddPrice(Price{CommodityGUID: commodity, CurrencyGUID: "cur-usd", Date: on, Value: Q(value).value})
}

// investmentFixture is the standard scenario: $1000 deposited, 10 shares
// bought at $50, latest price $60.
//
//	t0 2024-01-10  deposit $1000 to cash
//	t1 2024-02-10  buy 10 ACME at $50 (cash -500, cost basis 500)
//	t2 2024-03-15  ACME priced at $60
func investmentFixture(t *testing.T) (*bookBuilder, Date, Date, Date) {
	t.Helper()
	b := newBookBuilder(t)
	b.listing("sec-acme", "ACME")
	b.account("assets", "Assets", AccountAsset, "root", "cur-usd")
	b.account("investments", "Investments", AccountAsset, "assets", "cur-usd")
	b.account("brokerage", "Brokerage", AccountAsset, "investments", "cur-usd")
	b.account("cash", "Cash", AccountBank, "brokerage", "cur-usd")
	b.account("acme", "ACME", AccountStock, "brokerage", "sec-acme")

	t0 := NewDate(2024, time.January, 10)
	t1 := NewDate(2024, time.February, 10)
	t2 := NewDate(2024, time.March, 15)

	b.post("cash", t0, 1000, 1000)
	b.trade("cash", "acme", t1, 500, 10)
	b.price("sec-acme", t1, 50)
	b.price("sec-acme", t2, 60)
	return b, t0, t1, t2
}

func (b *bookBuilder) engine(base string) *Engine {
	b.t.Helper()
	e, err := NewEngine(b.book, base)
	if err != nil {
		b.t.Fatalf("NewEngine: %v", err)
	}
	return e
}
