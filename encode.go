package gnucash

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The book interchange format is JSONL: one JSON object per line with a
// "record" discriminator. It is the fixture format feeding the store
// boundary; parsing real GnuCash files is the storage collaborator's job.
type recordType string

const (
	recordCommodity   recordType = "commodity"
	recordAccount     recordType = "account"
	recordTransaction recordType = "transaction"
	recordPrice       recordType = "price"
	recordMetadata    recordType = "metadata"
)

type commodityRecord struct {
	Record    recordType `json:"record"`
	GUID      string     `json:"guid"`
	Namespace string     `json:"namespace"`
	Mnemonic  string     `json:"mnemonic"`
	Fraction  int        `json:"fraction"`
}

type accountRecord struct {
	Record    recordType  `json:"record"`
	GUID      string      `json:"guid"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Parent    string      `json:"parent,omitempty"`
	Commodity string      `json:"commodity,omitempty"`
	Hidden    bool        `json:"hidden,omitempty"`
}

type splitRecord struct {
	Account       string `json:"account"`
	ValueNum      int64  `json:"valueNum"`
	ValueDenom    int64  `json:"valueDenom"`
	QuantityNum   int64  `json:"quantityNum"`
	QuantityDenom int64  `json:"quantityDenom"`
}

// TransactionRecord is a balanced group of splits dated to one posting
// date. A zero Date stands for a null posting date.
type TransactionRecord struct {
	Record   recordType    `json:"record"`
	GUID     string        `json:"guid,omitempty"`
	Currency string        `json:"currency"`
	Date     Date          `json:"date"`
	Splits   []splitRecord `json:"splits"`
}

// Balanced checks the double-entry invariant: split values sum to zero in
// the transaction's currency, compared in exact rational form.
func (t TransactionRecord) Balanced() bool {
	var sum decimal.Decimal
	for _, s := range t.Splits {
		sum = sum.Add(Rat(s.ValueNum, s.ValueDenom))
	}
	return sum.IsZero()
}

type priceRecord struct {
	Record     recordType `json:"record"`
	Commodity  string     `json:"commodity"`
	Currency   string     `json:"currency"`
	Date       Date       `json:"date"`
	ValueNum   int64      `json:"valueNum"`
	ValueDenom int64      `json:"valueDenom"`
}

type metadataRecord struct {
	Record        recordType     `json:"record"`
	Commodity     string         `json:"commodity"`
	SectorWeights []SectorWeight `json:"sectorWeights"`
}

// MemoryStore is an in-memory implementation of the ledger store boundary,
// fed from a JSONL book. Cache semantics are last-write-wins; entries are
// pure functions of their keys so races between loads are benign.
type MemoryStore struct {
	accounts     []AccountRow
	commodities  []CommodityRow
	transactions []TransactionRecord
	prices       []PriceRow
	metadata     map[string]*CommodityMetadata
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{metadata: make(map[string]*CommodityMetadata)}
}

func (m *MemoryStore) AddAccount(row AccountRow)       { m.accounts = append(m.accounts, row) }
func (m *MemoryStore) AddCommodity(row CommodityRow)   { m.commodities = append(m.commodities, row) }
func (m *MemoryStore) AddPrice(row PriceRow)           { m.prices = append(m.prices, row) }
func (m *MemoryStore) AddTransaction(t TransactionRecord) {
	m.transactions = append(m.transactions, t)
}
func (m *MemoryStore) SetMetadata(commodityGUID string, md *CommodityMetadata) {
	m.metadata[commodityGUID] = md
}

// ListAccounts implements AccountSource.
func (m *MemoryStore) ListAccounts(filter AccountFilter) ([]AccountRow, error) {
	var out []AccountRow
	for _, row := range m.accounts {
		if row.Hidden && !filter.IncludeHidden {
			continue
		}
		if len(filter.Types) > 0 {
			match := false
			for _, t := range filter.Types {
				if row.Type == t {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// ListCommodities implements CommoditySource.
func (m *MemoryStore) ListCommodities() ([]CommodityRow, error) {
	return append([]CommodityRow(nil), m.commodities...), nil
}

// ListSplits implements SplitSource, flattening transactions into split
// rows. A nil guid list matches every account.
func (m *MemoryStore) ListSplits(accountGUIDs []string) ([]SplitRow, error) {
	var want map[string]struct{}
	if accountGUIDs != nil {
		want = make(map[string]struct{}, len(accountGUIDs))
		for _, guid := range accountGUIDs {
			want[guid] = struct{}{}
		}
	}
	var out []SplitRow
	for _, tx := range m.transactions {
		for _, s := range tx.Splits {
			if want != nil {
				if _, ok := want[s.Account]; !ok {
					continue
				}
			}
			out = append(out, SplitRow{
				AccountGUID:   s.Account,
				ValueNum:      s.ValueNum,
				ValueDenom:    s.ValueDenom,
				QuantityNum:   s.QuantityNum,
				QuantityDenom: s.QuantityDenom,
				PostDate:      tx.Date,
			})
		}
	}
	return out, nil
}

// ListPrices implements PriceSource.
func (m *MemoryStore) ListPrices(commodityGUIDs []string) ([]PriceRow, error) {
	var want map[string]struct{}
	if commodityGUIDs != nil {
		want = make(map[string]struct{}, len(commodityGUIDs))
		for _, guid := range commodityGUIDs {
			want[guid] = struct{}{}
		}
	}
	var out []PriceRow
	for _, row := range m.prices {
		if want != nil {
			if _, ok := want[row.CommodityGUID]; !ok {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// CommodityMetadata implements MetadataSource.
func (m *MemoryStore) CommodityMetadata(commodityGUID string) (*CommodityMetadata, bool) {
	md, ok := m.metadata[commodityGUID]
	return md, ok
}

// UnbalancedTransactions reports the guids of transactions violating the
// zero-sum invariant. Malformed postings are reported, never corrected.
func (m *MemoryStore) UnbalancedTransactions() []string {
	var out []string
	for _, tx := range m.transactions {
		if !tx.Balanced() {
			out = append(out, tx.GUID)
		}
	}
	return out
}

// DecodeBook reads a JSONL book from r.
func DecodeBook(r io.Reader) (*MemoryStore, error) {
	store := NewMemoryStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var discriminator struct {
			Record recordType `json:"record"`
		}
		if err := json.Unmarshal(raw, &discriminator); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record: %w", line, err)
		}
		switch discriminator.Record {
		case recordCommodity:
			var rec commodityRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			store.AddCommodity(CommodityRow{GUID: rec.GUID, Namespace: rec.Namespace, Mnemonic: rec.Mnemonic, Fraction: rec.Fraction})
		case recordAccount:
			var rec accountRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			store.AddAccount(AccountRow{GUID: rec.GUID, Name: rec.Name, Type: rec.Type, ParentGUID: rec.Parent, CommodityGUID: rec.Commodity, Hidden: rec.Hidden})
		case recordTransaction:
			var rec TransactionRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			store.AddTransaction(rec)
		case recordPrice:
			var rec priceRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			store.AddPrice(PriceRow{CommodityGUID: rec.Commodity, CurrencyGUID: rec.Currency, Date: rec.Date, ValueNum: rec.ValueNum, ValueDenom: rec.ValueDenom})
		case recordMetadata:
			var rec metadataRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			store.SetMetadata(rec.Commodity, &CommodityMetadata{SectorWeights: rec.SectorWeights})
		default:
			return nil, fmt.Errorf("line %d: unknown record type %q", line, discriminator.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading book: %w", err)
	}
	return store, nil
}

// EncodeBook writes the store back out as JSONL, one record per line, in a
// canonical order: commodities, accounts, transactions, prices, metadata.
func EncodeBook(w io.Writer, store *MemoryStore) error {
	enc := json.NewEncoder(w)
	for _, c := range store.commodities {
		rec := commodityRecord{Record: recordCommodity, GUID: c.GUID, Namespace: c.Namespace, Mnemonic: c.Mnemonic, Fraction: c.Fraction}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	for _, a := range store.accounts {
		rec := accountRecord{Record: recordAccount, GUID: a.GUID, Name: a.Name, Type: a.Type, Parent: a.ParentGUID, Commodity: a.CommodityGUID, Hidden: a.Hidden}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	for _, tx := range store.transactions {
		tx.Record = recordTransaction
		if err := enc.Encode(tx); err != nil {
			return err
		}
	}
	for _, p := range store.prices {
		rec := priceRecord{Record: recordPrice, Commodity: p.CommodityGUID, Currency: p.CurrencyGUID, Date: p.Date, ValueNum: p.ValueNum, ValueDenom: p.ValueDenom}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	for guid, md := range store.metadata {
		rec := metadataRecord{Record: recordMetadata, Commodity: guid, SectorWeights: md.SectorWeights}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// EncodePrice marshals a single price record line, for appending fresh
// quotes to an existing book file.
func EncodePrice(row PriceRow) ([]byte, error) {
	rec := priceRecord{Record: recordPrice, Commodity: row.CommodityGUID, Currency: row.CurrencyGUID, Date: row.Date, ValueNum: row.ValueNum, ValueDenom: row.ValueDenom}
	return json.Marshal(rec)
}
