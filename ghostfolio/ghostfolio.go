// Package ghostfolio is a minimal client for the Ghostfolio HTTP API,
// covering the endpoints the synchronizers and the analyzer need: activities
// per account, accounts, bulk import, account update and manual market data.
package ghostfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

// Client talks to one Ghostfolio instance on behalf of one user.
type Client struct {
	host        string
	accessToken string
	authToken   string
	http        *http.Client
}

// NewClient builds a client for the given host. The access token is
// exchanged for a bearer token lazily, on the first request.
func NewClient(host, accessToken string) *Client {
	return &Client{
		host:        strings.TrimSuffix(host, "/"),
		accessToken: accessToken,
		http:        new(http.Client),
	}
}

// login exchanges the account access token for a bearer token.
func (c *Client) login() error {
	body, err := json.Marshal(map[string]string{"accessToken": c.accessToken})
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.host+"/api/v1/auth/anonymous", "application/json", bytes.NewReader(body))
	if err != nil {
		return ghostsync.Transportf("ghostfolio auth: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ghostsync.Transportf("ghostfolio auth: %s", resp.Status)
	}

	var payload struct {
		AuthToken string `json:"authToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ghostsync.Dataf("ghostfolio auth response: %v", err)
	}
	if payload.AuthToken == "" {
		return ghostsync.Dataf("ghostfolio auth response: empty auth token")
	}
	c.authToken = payload.AuthToken
	return nil
}

// do performs one authenticated request and decodes the JSON response into
// out (which may be nil for write-only calls).
func (c *Client) do(method, path string, query url.Values, in, out any) error {
	if c.authToken == "" {
		if err := c.login(); err != nil {
			return err
		}
	}

	addr := c.host + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, addr, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ghostsync.Transportf("ghostfolio %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	log.Printf("%s %s %s", method, path, resp.Status)
	if resp.StatusCode >= 300 {
		return ghostsync.Transportf("ghostfolio %s %s: %s", method, path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ghostsync.Dataf("ghostfolio %s %s: %v", method, path, err)
	}
	return nil
}

// activityPayload is Ghostfolio's wire shape for one activity, shared by the
// orders read and the import write.
type activityPayload struct {
	AccountID  string  `json:"accountId,omitempty"`
	Comment    string  `json:"comment,omitempty"`
	Currency   string  `json:"currency"`
	DataSource string  `json:"dataSource"`
	Date       string  `json:"date"`
	Fee        float64 `json:"fee"`
	Quantity   float64 `json:"quantity"`
	Symbol     string  `json:"symbol"`
	Type       string  `json:"type"`
	UnitPrice  float64 `json:"unitPrice"`

	SymbolProfile *struct {
		Symbol string `json:"symbol"`
	} `json:"SymbolProfile,omitempty"`
}

// Activities returns the activities recorded for an account.
func (c *Client) Activities(accountID string) ([]ghostsync.Activity, error) {
	var payload struct {
		Activities []activityPayload `json:"activities"`
	}
	query := url.Values{"accounts": {accountID}}
	if err := c.do(http.MethodGet, "/api/v1/order", query, nil, &payload); err != nil {
		return nil, err
	}

	activities := make([]ghostsync.Activity, 0, len(payload.Activities))
	for _, p := range payload.Activities {
		date, err := parseDate(p.Date)
		if err != nil {
			return nil, ghostsync.Dataf("ghostfolio activity date %q: %v", p.Date, err)
		}
		symbol := p.Symbol
		if symbol == "" && p.SymbolProfile != nil {
			symbol = p.SymbolProfile.Symbol
		}
		activities = append(activities, ghostsync.Activity{
			AccountID:  accountID,
			Comment:    p.Comment,
			Currency:   p.Currency,
			DataSource: ghostsync.DataSource(p.DataSource),
			Date:       date,
			Fee:        decimal.NewFromFloat(p.Fee),
			Quantity:   decimal.NewFromFloat(p.Quantity),
			Symbol:     symbol,
			Type:       ghostsync.ActivityType(p.Type),
			UnitPrice:  decimal.NewFromFloat(p.UnitPrice),
		})
	}
	return activities, nil
}

// ImportActivities bulk-appends activities. The endpoint documents no
// atomicity guarantee; the key-set gate makes a rerun safe either way.
func (c *Client) ImportActivities(activities []ghostsync.Activity) error {
	payload := struct {
		Activities []activityPayload `json:"activities"`
	}{Activities: make([]activityPayload, 0, len(activities))}

	for _, a := range activities {
		payload.Activities = append(payload.Activities, activityPayload{
			AccountID:  a.AccountID,
			Comment:    a.Comment,
			Currency:   a.Currency,
			DataSource: string(a.DataSource),
			Date:       a.Date.UTC().Format(time.RFC3339),
			Fee:        a.Fee.InexactFloat64(),
			Quantity:   a.Quantity.InexactFloat64(),
			Symbol:     a.Symbol,
			Type:       string(a.Type),
			UnitPrice:  a.UnitPrice.InexactFloat64(),
		})
	}
	return c.do(http.MethodPost, "/api/v1/import", nil, payload, nil)
}

// UpdateBalance pushes a freshly computed cash balance to an account record.
func (c *Client) UpdateBalance(account ghostsync.Account, balance decimal.Decimal) error {
	payload := map[string]any{
		"id":         account.ID,
		"name":       account.Name,
		"currency":   account.Currency,
		"platformId": account.PlatformID,
		"balance":    balance.InexactFloat64(),
	}
	return c.do(http.MethodPut, "/api/v1/account/"+account.ID, nil, payload, nil)
}

// PostMarketData posts manual market data points for a symbol, used for
// instruments priced by hand such as pension fund NAV snapshots.
func (c *Client) PostMarketData(source ghostsync.DataSource, symbol string, points []MarketDataPoint) error {
	payload := struct {
		MarketData []MarketDataPoint `json:"marketData"`
	}{MarketData: points}
	path := fmt.Sprintf("/api/v1/market-data/%s/%s", source, symbol)
	return c.do(http.MethodPost, path, nil, payload, nil)
}

// MarketDataPoint is one manually priced (date, price) observation.
type MarketDataPoint struct {
	Date        string  `json:"date"`
	MarketPrice float64 `json:"marketPrice"`
}

// parseDate reads Ghostfolio's ISO-8601 dates, with or without a time part.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
