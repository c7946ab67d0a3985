package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	cb "github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketsJSON = `[
  {
    "id": "bitcoin", "symbol": "btc", "name": "Bitcoin",
    "current_price": 43250, "market_cap": 847000000000, "total_volume": 28000000000,
    "price_change_percentage_24h": 2.5,
    "price_change_percentage_7d_in_currency": 8.2,
    "price_change_percentage_30d_in_currency": 15.3,
    "circulating_supply": 19600000, "total_supply": 19600000, "max_supply": 21000000,
    "ath": 69000, "ath_change_percentage": -37.3
  },
  {
    "id": "newcoin", "symbol": "new", "name": "New Coin",
    "current_price": 0.42, "market_cap": null, "total_volume": 1200,
    "price_change_percentage_24h": null,
    "price_change_percentage_24h_in_currency": -3.1,
    "price_change_percentage_7d_in_currency": null,
    "price_change_percentage_30d_in_currency": null,
    "circulating_supply": null, "total_supply": null, "max_supply": null,
    "ath": null, "ath_change_percentage": null
  }
]`

func newTestFetcher(url string) *CoinGeckoFetcher {
	return NewCoinGeckoFetcher(CoinGeckoOptions{BaseURL: url, APIKey: "demo-key", RatePerSec: 1000})
}

func TestCoinGeckoFetcher_FetchMarkets(t *testing.T) {
	var query map[string]string
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		apiKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsJSON))
	}))
	defer srv.Close()

	snaps, err := newTestFetcher(srv.URL).FetchMarkets(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, "usd", query["vs_currency"])
	assert.Equal(t, "market_cap_desc", query["order"])
	assert.Equal(t, "50", query["per_page"])
	assert.Equal(t, "24h,7d,30d", query["price_change_percentage"])
	assert.Equal(t, "demo-key", apiKey)

	btc := snaps[0]
	assert.Equal(t, "BTC", btc.Symbol)
	assert.Equal(t, 43250.0, btc.CurrentPrice)
	assert.Equal(t, 8.2, btc.PriceChange7d)
	assert.Equal(t, 28e9, btc.Volume24h)
	require.NotNil(t, btc.MaxSupply)
	assert.Equal(t, 21e6, *btc.MaxSupply)

	fresh := snaps[1]
	assert.Equal(t, "NEW", fresh.Symbol)
	assert.Equal(t, -3.1, fresh.PriceChange24h)
	assert.Zero(t, fresh.MarketCap)
	assert.Zero(t, fresh.PriceChange7d)
	assert.Nil(t, fresh.MaxSupply)
}

func TestCoinGeckoFetcher_UpstreamError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := f.FetchMarkets(context.Background(), 10)
		assert.ErrorIs(t, err, ErrUpstream)
	}

	_, err := f.FetchMarkets(context.Background(), 10)
	assert.ErrorIs(t, err, cb.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestCoinGeckoFetcher_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestFetcher(srv.URL).FetchMarkets(ctx, 10)
	assert.Error(t, err)
}
