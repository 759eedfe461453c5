// Package coingecko looks up historical coin prices on the CoinGecko API
// (demo tier).
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// historyDateFormat is CoinGecko's dd-mm-yyyy history date parameter.
const historyDateFormat = "02-01-2006"

// Client queries CoinGecko with a demo API key. The demo tier allows around
// 30 calls per minute, so requests go through a rate limiter.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client for the given demo API key.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    new(http.Client),
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// History returns the USD price of a coin on the given day. It implements
// ghostsync.PriceSource; callers wrap it in a ghostsync.PriceCache so one
// run asks for each (coin, day) at most once.
func (c *Client) History(coin string, day time.Time) (decimal.Decimal, error) {
	log.Printf("getting %q price for %s", coin, day.UTC().Format("2006-01-02"))

	if err := c.limiter.Wait(context.Background()); err != nil {
		return decimal.Decimal{}, err
	}

	query := url.Values{
		"date":              {day.UTC().Format(historyDateFormat)},
		"localization":      {"false"},
		"x_cg_demo_api_key": {c.apiKey},
	}
	addr := fmt.Sprintf("%s/coins/%s/history?%s", c.baseURL, coin, query.Encode())

	resp, err := c.http.Get(addr)
	if err != nil {
		return decimal.Decimal{}, ghostsync.Transportf("coingecko history: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, ghostsync.Transportf("coingecko history %q: %s", coin, resp.Status)
	}

	var payload struct {
		MarketData *struct {
			CurrentPrice map[string]decimal.Decimal `json:"current_price"`
		} `json:"market_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, ghostsync.Dataf("coingecko history %q: %v", coin, err)
	}
	if payload.MarketData == nil {
		return decimal.Decimal{}, ghostsync.Dataf("coingecko history %q: no market data on %s",
			coin, day.UTC().Format("2006-01-02"))
	}
	price, ok := payload.MarketData.CurrentPrice["usd"]
	if !ok {
		return decimal.Decimal{}, ghostsync.Dataf("coingecko history %q: no usd price", coin)
	}
	return price, nil
}
