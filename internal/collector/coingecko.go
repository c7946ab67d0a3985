package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	cb "github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"CryptoAdvisor/internal/model"
)

// DefaultCoinGeckoURL is the public CoinGecko v3 API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// ErrUpstream marks a non-2xx answer from the market data provider.
var ErrUpstream = errors.New("upstream error")

// CoinGeckoOptions configures the CoinGecko fetcher.
type CoinGeckoOptions struct {
	BaseURL    string
	APIKey     string
	ProxyURL   string
	Timeout    time.Duration
	Retries    int
	RatePerSec float64
}

// CoinGeckoFetcher implements Fetcher using the /coins/markets endpoint.
type CoinGeckoFetcher struct {
	client  *resty.Client
	breaker *cb.CircuitBreaker
	limiter *rate.Limiter
}

// NewCoinGeckoFetcher creates a fetcher with retry, rate limiting and a circuit breaker.
func NewCoinGeckoFetcher(opts CoinGeckoOptions) *CoinGeckoFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultCoinGeckoURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 0.5 // free tier allows ~30 calls/min
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r != nil && (r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500)
		})
	if opts.APIKey != "" {
		client.SetHeader("x-cg-demo-api-key", opts.APIKey)
	}
	if opts.ProxyURL != "" {
		client.SetProxy(opts.ProxyURL)
	}

	st := cb.Settings{Name: "coingecko"}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}

	return &CoinGeckoFetcher{
		client:  client,
		breaker: cb.NewCircuitBreaker(st),
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
	}
}

func (f *CoinGeckoFetcher) Name() string { return model.SourceLive }

// coinMarket mirrors one element of /coins/markets. Every numeric field may be null.
type coinMarket struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	CurrentPrice      *float64 `json:"current_price"`
	MarketCap         *float64 `json:"market_cap"`
	TotalVolume       *float64 `json:"total_volume"`
	Change24h         *float64 `json:"price_change_percentage_24h"`
	Change24hInCur    *float64 `json:"price_change_percentage_24h_in_currency"`
	Change7dInCur     *float64 `json:"price_change_percentage_7d_in_currency"`
	Change30dInCur    *float64 `json:"price_change_percentage_30d_in_currency"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"`
	MaxSupply         *float64 `json:"max_supply"`
	ATH               *float64 `json:"ath"`
	ATHChangePct      *float64 `json:"ath_change_percentage"`
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (c coinMarket) toSnapshot() model.MarketSnapshot {
	change24h := c.Change24h
	if change24h == nil {
		change24h = c.Change24hInCur
	}
	return model.MarketSnapshot{
		ID:                c.ID,
		Symbol:            strings.ToUpper(c.Symbol),
		Name:              c.Name,
		CurrentPrice:      deref(c.CurrentPrice),
		PriceChange24h:    deref(change24h),
		PriceChange7d:     deref(c.Change7dInCur),
		PriceChange30d:    deref(c.Change30dInCur),
		MarketCap:         deref(c.MarketCap),
		Volume24h:         deref(c.TotalVolume),
		CirculatingSupply: deref(c.CirculatingSupply),
		TotalSupply:       deref(c.TotalSupply),
		MaxSupply:         c.MaxSupply,
		ATH:               deref(c.ATH),
		ATHChangePct:      deref(c.ATHChangePct),
	}
}

// FetchMarkets returns the top coins by market cap, at most limit (max 250).
func (f *CoinGeckoFetcher) FetchMarkets(ctx context.Context, limit int) ([]model.MarketSnapshot, error) {
	if limit <= 0 || limit > 250 {
		limit = 100
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	out, err := f.breaker.Execute(func() (any, error) {
		var markets []coinMarket
		resp, err := f.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"vs_currency":             "usd",
				"order":                   "market_cap_desc",
				"per_page":                strconv.Itoa(limit),
				"page":                    "1",
				"sparkline":               "false",
				"price_change_percentage": "24h,7d,30d",
			}).
			SetResult(&markets).
			Get("/coins/markets")
		if err != nil {
			return nil, fmt.Errorf("request coins/markets: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: coins/markets returned %d", ErrUpstream, resp.StatusCode())
		}
		return markets, nil
	})
	if err != nil {
		return nil, err
	}

	markets := out.([]coinMarket)
	snaps := make([]model.MarketSnapshot, 0, len(markets))
	for _, m := range markets {
		snaps = append(snaps, m.toSnapshot())
	}
	return snaps, nil
}
