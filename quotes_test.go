package gnucash

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteServer(t *testing.T, body map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, ok := body[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testQuoteClient(t *testing.T, srv *httptest.Server) *QuoteClient {
	t.Helper()
	return NewQuoteClient(QuotesConfig{
		BaseURL:   srv.URL,
		Timeout:   "5s",
		CacheDir:  t.TempDir(),
		PricePath: "$.close",
	}, NewSilentLogger())
}

func TestLatestPrice(t *testing.T) {
	srv := quoteServer(t, map[string]string{
		"/real-time/ACME": `{"code":"ACME","close":61.25,"volume":1200}`,
		"/real-time/LIST": `[{"close":10.5},{"close":99}]`,
		"/real-time/TEXT": `{"close":"n/a"}`,
	})
	q := testQuoteClient(t, srv)

	t.Run("object response", func(t *testing.T) {
		price, err := q.LatestPrice("ACME")
		require.NoError(t, err)
		assert.Equal(t, 61.25, price)
	})

	t.Run("list response keeps first", func(t *testing.T) {
		price, err := q.LatestPrice("LIST")
		require.NoError(t, err)
		assert.Equal(t, 10.5, price)
	})

	t.Run("non-numeric price", func(t *testing.T) {
		_, err := q.LatestPrice("TEXT")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a number")
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := q.LatestPrice("MISSING")
		require.Error(t, err)
	})
}

func TestLatestPriceCachesDaily(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"close":42.0}`)
	}))
	t.Cleanup(srv.Close)
	q := testQuoteClient(t, srv)

	for range 3 {
		price, err := q.LatestPrice("ACME")
		require.NoError(t, err)
		assert.Equal(t, 42.0, price)
	}
	assert.Equal(t, 1, hits, "repeat requests on the same day must hit the disk cache")
}

func TestUpdatePrices(t *testing.T) {
	srv := quoteServer(t, map[string]string{
		"/real-time/ACME": `{"close":61.25}`,
	})
	q := testQuoteClient(t, srv)

	b, _, _, _ := investmentFixture(t)
	b.listing("sec-gone", "GONE") // provider has no quote for this one
	store := NewMemoryStore()

	added := q.UpdatePrices(b.book, store, "USD")
	require.Len(t, added, 1, "failed symbol skipped, the rest still update")

	row := added[0]
	assert.Equal(t, "sec-acme", row.CommodityGUID)
	assert.Equal(t, "cur-usd", row.CurrencyGUID)
	assert.Equal(t, Today(), row.Date)
	assert.True(t, Rat(row.ValueNum, row.ValueDenom).Equal(Q(61.25).value))

	stored, err := store.ListPrices(nil)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestUpdatePricesMissingBaseCurrency(t *testing.T) {
	srv := quoteServer(t, nil)
	q := testQuoteClient(t, srv)

	b, _, _, _ := investmentFixture(t)
	added := q.UpdatePrices(b.book, NewMemoryStore(), "JPY")
	assert.Nil(t, added)
}
