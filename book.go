package gnucash

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountAsset      AccountType = "ASSET"
	AccountBank       AccountType = "BANK"
	AccountCash       AccountType = "CASH"
	AccountCredit     AccountType = "CREDIT"
	AccountLiability  AccountType = "LIABILITY"
	AccountIncome     AccountType = "INCOME"
	AccountExpense    AccountType = "EXPENSE"
	AccountEquity     AccountType = "EQUITY"
	AccountReceivable AccountType = "RECEIVABLE"
	AccountPayable    AccountType = "PAYABLE"
	AccountStock      AccountType = "STOCK"
	AccountMutual     AccountType = "MUTUAL"
	AccountTrading    AccountType = "TRADING"
	AccountRoot       AccountType = "ROOT"
)

// IsAssetLike reports whether balances on this account count toward assets.
func (t AccountType) IsAssetLike() bool {
	switch t {
	case AccountAsset, AccountBank, AccountCash, AccountReceivable:
		return true
	}
	return false
}

// IsLiabilityLike reports whether balances on this account count toward
// liabilities. Liability balances are negative-signed by ledger convention.
func (t AccountType) IsLiabilityLike() bool {
	switch t {
	case AccountCredit, AccountLiability, AccountPayable:
		return true
	}
	return false
}

// IsInvestment reports whether the account holds securities rather than cash.
// Qualification also requires a non-currency commodity, checked on the Book.
func (t AccountType) IsInvestment() bool {
	return t == AccountStock || t == AccountMutual
}

// CurrencyNamespace is the commodity namespace reserved for currencies; any
// other namespace is an exchange listing.
const CurrencyNamespace = "CURRENCY"

// Account is one node of the chart-of-accounts tree.
type Account struct {
	GUID          string
	Name          string
	Type          AccountType
	ParentGUID    string // empty for the root
	CommodityGUID string
	Hidden        bool
}

// Commodity is any tradable unit, currency or security, identified by
// namespace plus mnemonic and referenced by GUID elsewhere.
type Commodity struct {
	GUID      string
	Namespace string
	Mnemonic  string
	Fraction  int // smallest tradable unit, e.g. 100 for cents
}

func (c *Commodity) IsCurrency() bool { return c.Namespace == CurrencyNamespace }

// Split is one leg of a double-entry transaction: the atomic, append-only
// event the valuation engine replays. Value is expressed in the
// transaction's currency, Quantity in the account's native commodity units.
// A zero PostDate marks a split whose posting date is null in the source
// ledger; such splits are excluded from valuation.
type Split struct {
	AccountGUID string
	Value       decimal.Decimal
	Quantity    decimal.Decimal
	PostDate    Date
}

// Price is one historical quote: the commodity's value expressed in the
// quote currency on the given date. Gaps in the series are expected.
type Price struct {
	CommodityGUID string
	CurrencyGUID  string
	Date          Date
	Value         decimal.Decimal
}

// NewGUID mints an identifier for generated records.
func NewGUID() string { return uuid.NewString() }

// Book is an immutable in-memory snapshot of the ledger store: the chart of
// accounts, commodities, splits and price history fetched once per request.
// The engine borrows it and never writes back.
type Book struct {
	accounts    map[string]*Account
	order       []string // account guids in insertion order
	commodities map[string]*Commodity
	splits      []Split
	prices      []Price

	children map[string][]string // parent guid -> child guids, built lazily
}

func NewBook() *Book {
	return &Book{
		accounts:    make(map[string]*Account),
		commodities: make(map[string]*Commodity),
	}
}

// AddAccount indexes an account, minting a GUID when absent.
func (b *Book) AddAccount(a *Account) *Account {
	if a.GUID == "" {
		a.GUID = NewGUID()
	}
	if _, exists := b.accounts[a.GUID]; !exists {
		b.order = append(b.order, a.GUID)
	}
	b.accounts[a.GUID] = a
	b.children = nil
	return a
}

// AddCommodity indexes a commodity, minting a GUID when absent.
func (b *Book) AddCommodity(c *Commodity) *Commodity {
	if c.GUID == "" {
		c.GUID = NewGUID()
	}
	b.commodities[c.GUID] = c
	return c
}

func (b *Book) AddSplit(s Split) { b.splits = append(b.splits, s) }
func (b *Book) AddPrice(p Price) { b.prices = append(b.prices, p) }

func (b *Book) Account(guid string) *Account     { return b.accounts[guid] }
func (b *Book) Commodity(guid string) *Commodity { return b.commodities[guid] }

// CommodityByMnemonic finds a commodity by identity (namespace + mnemonic).
func (b *Book) CommodityByMnemonic(namespace, mnemonic string) *Commodity {
	for _, c := range b.commodities {
		if c.Namespace == namespace && c.Mnemonic == mnemonic {
			return c
		}
	}
	return nil
}

// Accounts returns all accounts in insertion order.
func (b *Book) Accounts() []*Account {
	out := make([]*Account, 0, len(b.order))
	for _, guid := range b.order {
		out = append(out, b.accounts[guid])
	}
	return out
}

// Root returns the single ROOT account, or nil when the tree has none.
func (b *Book) Root() *Account {
	for _, guid := range b.order {
		if a := b.accounts[guid]; a.Type == AccountRoot {
			return a
		}
	}
	return nil
}

// Prices returns the raw price history, unsorted.
func (b *Book) Prices() []Price { return b.prices }

// Splits returns every split on accounts matching the predicate. A nil
// predicate matches everything.
func (b *Book) Splits(pred func(*Account) bool) []Split {
	var out []Split
	for _, s := range b.splits {
		a := b.accounts[s.AccountGUID]
		if a == nil {
			continue
		}
		if pred == nil || pred(a) {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty reports whether no ledger data is reachable at all, as opposed to
// a valid empty portfolio that still has a chart of accounts.
func (b *Book) IsEmpty() bool {
	return len(b.accounts) == 0 && len(b.splits) == 0
}

// adjacency builds the shared parent->children map used for every
// "all descendants of account X" resolution.
func (b *Book) adjacency() map[string][]string {
	if b.children != nil {
		return b.children
	}
	b.children = make(map[string][]string)
	for _, guid := range b.order {
		a := b.accounts[guid]
		if a.ParentGUID != "" {
			b.children[a.ParentGUID] = append(b.children[a.ParentGUID], guid)
		}
	}
	for _, kids := range b.children {
		sort.Slice(kids, func(i, j int) bool {
			return b.accounts[kids[i]].Name < b.accounts[kids[j]].Name
		})
	}
	return b.children
}

// Children returns the direct child account guids, sorted by name.
func (b *Book) Children(guid string) []string { return b.adjacency()[guid] }

// Descendants returns the guids of every account below the given one,
// excluding the account itself. The closure is iterative and cycle-safe.
func (b *Book) Descendants(guid string) []string {
	adjacency := b.adjacency()
	seen := map[string]struct{}{guid: {}}
	var out []string
	queue := append([]string(nil), adjacency[guid]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, dup := seen[next]; dup {
			continue
		}
		seen[next] = struct{}{}
		out = append(out, next)
		queue = append(queue, adjacency[next]...)
	}
	return out
}

// Path returns the colon-joined account names from root to node, excluding
// the ROOT account itself. A broken parent reference yields the partial
// path from the break downward rather than an error; this only affects
// display grouping, never monetary totals.
func (b *Book) Path(guid string) string {
	var names []string
	seen := make(map[string]struct{})
	for cur := guid; cur != ""; {
		if _, cycle := seen[cur]; cycle {
			break
		}
		seen[cur] = struct{}{}
		a := b.accounts[cur]
		if a == nil {
			break // broken reference: partial path
		}
		if a.Type == AccountRoot {
			break
		}
		names = append(names, a.Name)
		cur = a.ParentGUID
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ":")
}

// AccountCurrency resolves the account's assigned currency mnemonic. It
// returns false for accounts whose commodity is missing or not a currency.
func (b *Book) AccountCurrency(a *Account) (string, bool) {
	c := b.commodities[a.CommodityGUID]
	if c == nil || !c.IsCurrency() {
		return "", false
	}
	return c.Mnemonic, true
}

// IsInvestmentAccount reports whether the account qualifies for holdings
// valuation: STOCK or MUTUAL type holding a non-currency commodity.
func (b *Book) IsInvestmentAccount(a *Account) bool {
	if !a.Type.IsInvestment() {
		return false
	}
	c := b.commodities[a.CommodityGUID]
	return c != nil && !c.IsCurrency()
}
