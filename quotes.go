package gnucash

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// diskCache implements a simple disk cache for HTTP responses. The key
// embeds today's date, so entries expire daily.
type diskCache struct {
	base http.RoundTripper
	dir  string
	log  zerolog.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s %s", Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("method", resp.Request.Method).
		Str("host", resp.Request.URL.Host).
		Str("status", resp.Status).
		Msg("quote request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(c.dir, key))
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// QuoteClient fetches end-of-day quotes from the configured provider,
// caching responses on disk with daily expiry.
type QuoteClient struct {
	cfg    QuotesConfig
	client *http.Client
	log    zerolog.Logger
}

func NewQuoteClient(cfg QuotesConfig, log zerolog.Logger) *QuoteClient {
	dir := cfg.CacheDir
	if dir == "" {
		dir = os.TempDir()
	}
	client := &http.Client{
		Timeout:   cfg.GetTimeout(),
		Transport: &diskCache{base: http.DefaultTransport, dir: dir, log: log},
	}
	return &QuoteClient{cfg: cfg, client: client, log: log}
}

// LatestPrice fetches the most recent quote for a symbol and extracts the
// price via the configured jsonpath expression.
func (q *QuoteClient) LatestPrice(symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s",
		q.cfg.BaseURL, url.PathEscape(symbol), url.QueryEscape(q.cfg.APIKey))
	var jobj any
	if err := jwget(q.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("fetching quote for %q: %w", symbol, err)
	}
	jval, err := jsonpath.Get(q.cfg.PricePath, jobj)
	if err != nil {
		return 0, fmt.Errorf("extracting price for %q with %q: %w", symbol, q.cfg.PricePath, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("price for %q at %q is not a number: %v", symbol, q.cfg.PricePath, jval)
	}
	return val, nil
}

// UpdatePrices fetches today's quote for every non-currency commodity in
// the book and appends the resulting price rows to the store. A failed
// symbol is logged and skipped; the rest still update.
func (q *QuoteClient) UpdatePrices(book *Book, store *MemoryStore, base string) []PriceRow {
	baseCommodity := book.CommodityByMnemonic(CurrencyNamespace, base)
	if baseCommodity == nil {
		q.log.Error().Str("currency", base).Msg("base currency commodity not in book, cannot record quotes")
		return nil
	}
	today := Today()
	var listings []*Commodity
	for _, c := range book.commodities {
		if c.Namespace != CurrencyNamespace {
			listings = append(listings, c)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Mnemonic < listings[j].Mnemonic })

	var added []PriceRow
	for _, c := range listings {
		price, err := q.LatestPrice(c.Mnemonic)
		if err != nil {
			q.log.Warn().Err(err).Str("symbol", c.Mnemonic).Msg("quote update skipped")
			continue
		}
		rat := decimal.NewFromFloat(price).Round(6).Rat()
		row := PriceRow{
			CommodityGUID: c.GUID,
			CurrencyGUID:  baseCommodity.GUID,
			Date:          today,
			ValueNum:      rat.Num().Int64(),
			ValueDenom:    rat.Denom().Int64(),
		}
		store.AddPrice(row)
		added = append(added, row)
		q.log.Info().Str("symbol", c.Mnemonic).Float64("price", price).Msg("quote updated")
	}
	return added
}
