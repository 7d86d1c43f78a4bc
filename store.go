package gnucash

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoLedgerData marks the genuinely fatal condition of no ledger data
// being reachable at all, as distinct from a valid empty portfolio.
var ErrNoLedgerData = errors.New("no ledger data reachable")

// AccountRow is the account shape produced by the ledger store collaborator.
type AccountRow struct {
	GUID          string
	Name          string
	Type          AccountType
	ParentGUID    string
	CommodityGUID string
	Hidden        bool
}

// CommodityRow is the commodity shape produced by the ledger store.
type CommodityRow struct {
	GUID      string
	Namespace string
	Mnemonic  string
	Fraction  int
}

// SplitRow is the split shape produced by the ledger store. Amounts arrive
// as exact numerator/denominator pairs; a zero PostDate stands for a null
// posting date.
type SplitRow struct {
	AccountGUID   string
	ValueNum      int64
	ValueDenom    int64
	QuantityNum   int64
	QuantityDenom int64
	PostDate      Date
}

// PriceRow is the historical quote shape produced by the ledger store.
type PriceRow struct {
	CommodityGUID string
	CurrencyGUID  string
	Date          Date
	ValueNum      int64
	ValueDenom    int64
}

// SectorWeight assigns part of a commodity to an industry sector. Weights
// may split one commodity across several sectors, e.g. a broad-market fund.
type SectorWeight struct {
	Sector string  `json:"sector"`
	Weight float64 `json:"weight"`
}

// CommodityMetadata is externally sourced classification data for one
// commodity.
type CommodityMetadata struct {
	SectorWeights []SectorWeight `json:"sectorWeights"`
}

// AccountFilter narrows a ListAccounts call.
type AccountFilter struct {
	Types         []AccountType // nil means every type
	IncludeHidden bool
}

// The engine performs no I/O itself: these collaborator interfaces are the
// boundary through which the caller fetches everything up front. They are
// injected explicitly so the engine stays a pure function of its inputs
// and is trivially testable with fixture data.
type (
	AccountSource interface {
		ListAccounts(filter AccountFilter) ([]AccountRow, error)
	}
	CommoditySource interface {
		ListCommodities() ([]CommodityRow, error)
	}
	SplitSource interface {
		ListSplits(accountGUIDs []string) ([]SplitRow, error)
	}
	PriceSource interface {
		ListPrices(commodityGUIDs []string) ([]PriceRow, error)
	}
	MetadataSource interface {
		CommodityMetadata(commodityGUID string) (*CommodityMetadata, bool)
	}
)

// Store bundles the read-only ledger collaborators behind one handle.
type Store interface {
	AccountSource
	CommoditySource
	SplitSource
	PriceSource
}

// LoadBook fetches an immutable ledger snapshot through the store boundary.
// Malformed rows (zero denominators) are logged and degrade to zero values
// per the Rat contract; they never abort the load.
func LoadBook(store Store, log zerolog.Logger) (*Book, error) {
	accounts, err := store.ListAccounts(AccountFilter{IncludeHidden: true})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	commodities, err := store.ListCommodities()
	if err != nil {
		return nil, fmt.Errorf("listing commodities: %w", err)
	}

	book := NewBook()
	guids := make([]string, 0, len(accounts))
	for _, row := range accounts {
		book.AddAccount(&Account{
			GUID:          row.GUID,
			Name:          row.Name,
			Type:          row.Type,
			ParentGUID:    row.ParentGUID,
			CommodityGUID: row.CommodityGUID,
			Hidden:        row.Hidden,
		})
		guids = append(guids, row.GUID)
	}
	commodityGUIDs := make([]string, 0, len(commodities))
	for _, row := range commodities {
		book.AddCommodity(&Commodity{
			GUID:      row.GUID,
			Namespace: row.Namespace,
			Mnemonic:  row.Mnemonic,
			Fraction:  row.Fraction,
		})
		commodityGUIDs = append(commodityGUIDs, row.GUID)
	}

	splits, err := store.ListSplits(guids)
	if err != nil {
		return nil, fmt.Errorf("listing splits: %w", err)
	}
	for _, row := range splits {
		if row.ValueDenom == 0 || row.QuantityDenom == 0 {
			log.Warn().Str("account", row.AccountGUID).Msg("split with zero denominator, treated as zero")
		}
		book.AddSplit(Split{
			AccountGUID: row.AccountGUID,
			Value:       Rat(row.ValueNum, row.ValueDenom),
			Quantity:    Rat(row.QuantityNum, row.QuantityDenom),
			PostDate:    row.PostDate,
		})
	}

	prices, err := store.ListPrices(commodityGUIDs)
	if err != nil {
		return nil, fmt.Errorf("listing prices: %w", err)
	}
	for _, row := range prices {
		if row.ValueDenom == 0 {
			log.Warn().Str("commodity", row.CommodityGUID).Msg("price with zero denominator, treated as zero")
		}
		book.AddPrice(Price{
			CommodityGUID: row.CommodityGUID,
			CurrencyGUID:  row.CurrencyGUID,
			Date:          row.Date,
			Value:         Rat(row.ValueNum, row.ValueDenom),
		})
	}

	if book.IsEmpty() {
		return nil, ErrNoLedgerData
	}
	return book, nil
}
