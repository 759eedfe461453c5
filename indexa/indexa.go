// Package indexa is a client for the Indexa Capital API and its platform
// synchronizer, covering both mutual fund and pension plan accounts.
package indexa

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.indexacapital.com"

// Client queries one Indexa Capital account.
type Client struct {
	baseURL       string
	apiKey        string
	accountNumber string
	http          *http.Client
}

// NewClient builds a client for an account number, authenticated by API key.
func NewClient(apiKey, accountNumber string) *Client {
	return &Client{
		baseURL:       defaultBaseURL,
		apiKey:        apiKey,
		accountNumber: accountNumber,
		http:          new(http.Client),
	}
}

// get fetches one account-scoped endpoint and decodes the response into out.
func (c *Client) get(path string, out any) error {
	addr := fmt.Sprintf("%s/accounts/%s%s", c.baseURL, c.accountNumber, path)
	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-AUTH-TOKEN", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return ghostsync.Transportf("indexa %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ghostsync.Transportf("indexa %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ghostsync.Dataf("indexa %s: %v", path, err)
	}
	return nil
}

// Instrument identifies the fund an instrument transaction traded.
type Instrument struct {
	ISIN string `json:"isin_code"`
	Name string `json:"name"`
}

// InstrumentTransaction is one fund subscription or redemption.
type InstrumentTransaction struct {
	Reference     string          `json:"reference"`
	Currency      string          `json:"currency"`
	ExecutedAt    string          `json:"executed_at"` // "2006-01-02 15:04:05"
	Titles        decimal.Decimal `json:"titles"`
	Price         decimal.Decimal `json:"price"`
	OperationType string          `json:"operation_type"`
	Instrument    Instrument      `json:"instrument"`
}

// InstrumentTransactions lists the account's fund transactions.
func (c *Client) InstrumentTransactions() ([]InstrumentTransaction, error) {
	var txs []InstrumentTransaction
	if err := c.get("/instrument-transactions", &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// CashTransaction is one cash movement on the account ledger.
type CashTransaction struct {
	Reference     string          `json:"reference"`
	Currency      string          `json:"currency"`
	Date          string          `json:"date"` // "2006-01-02"
	Amount        decimal.Decimal `json:"amount"`
	OperationType string          `json:"operation_type"`
}

// CashTransactions lists the account's cash movements.
func (c *Client) CashTransactions() ([]CashTransaction, error) {
	var txs []CashTransaction
	if err := c.get("/cash-transactions", &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Position is one current fund position with its latest NAV.
type Position struct {
	Date       string          `json:"date"`
	Price      decimal.Decimal `json:"price"`
	Instrument Instrument      `json:"instrument"`
}

// Portfolio is the account's current state: cash plus fund positions.
type Portfolio struct {
	Portfolio struct {
		CashAmount decimal.Decimal `json:"cash_amount"`
	} `json:"portfolio"`
	InstrumentAccounts []struct {
		Positions []Position `json:"positions"`
	} `json:"instrument_accounts"`
}

// Portfolio returns the account's current portfolio.
func (c *Client) Portfolio() (Portfolio, error) {
	var p Portfolio
	if err := c.get("/portfolio", &p); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}
