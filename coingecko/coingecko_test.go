package coingecko

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

func TestHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/history" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("date"); got != "15-04-2024" {
			t.Errorf("date query = %q, want day-first 15-04-2024", got)
		}
		if r.URL.Query().Get("x_cg_demo_api_key") != "demo" {
			t.Error("request is missing the API key")
		}
		fmt.Fprint(w, `{"market_data": {"current_price": {"usd": 63425.12, "eur": 59000}}}`)
	}))
	defer server.Close()

	client := NewClient("demo")
	client.baseURL = server.URL

	price, err := client.History("bitcoin", time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("History() unexpected error = %v", err)
	}
	if !price.Equal(decimal.RequireFromString("63425.12")) {
		t.Errorf("History() = %s, want 63425.12", price)
	}
}

func TestHistoryNoMarketData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Days before the coin's listing come back without market_data.
		fmt.Fprint(w, `{"id": "bitcoin"}`)
	}))
	defer server.Close()

	client := NewClient("demo")
	client.baseURL = server.URL

	if _, err := client.History("bitcoin", time.Now()); !errors.Is(err, ghostsync.ErrData) {
		t.Errorf("History() error = %v, want ErrData", err)
	}
}
