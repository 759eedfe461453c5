// Package tradernet is a client for the Freedom24 (TraderNet) brokerage API
// and its platform synchronizer.
package tradernet

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://tradernet.com/api/v2/cmd/"

// Client signs and sends TraderNet API commands.
type Client struct {
	baseURL    string
	publicKey  string
	privateKey string
	http       *http.Client
}

// NewClient builds a client for an API key pair.
func NewClient(publicKey, privateKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		publicKey:  publicKey,
		privateKey: privateKey,
		http:       new(http.Client),
	}
}

// do posts one signed command and decodes the response into out.
func (c *Client) do(cmd string, params map[string]any, out any) error {
	message := map[string]any{
		"cmd":    cmd,
		"params": params,
		"apiKey": c.publicKey,
		"nonce":  time.Now().UnixMilli(),
	}
	q, err := json.Marshal(message)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, []byte(c.privateKey))
	mac.Write(q)
	sig := hex.EncodeToString(mac.Sum(nil))

	form := url.Values{"q": {string(q)}}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+cmd, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-NtApi-Sig", sig)

	resp, err := c.http.Do(req)
	if err != nil {
		return ghostsync.Transportf("tradernet %s: %v", cmd, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ghostsync.Transportf("tradernet %s: %s", cmd, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ghostsync.Dataf("tradernet %s: %v", cmd, err)
	}
	return nil
}

// Trade is one executed trade from the trades history endpoint.
type Trade struct {
	ID         json.Number     `json:"id"`
	Date       string          `json:"date"` // naive UTC, "2006-01-02 15:04:05"
	Currency   string          `json:"curr_c"`
	Commission decimal.Decimal `json:"commission"`
	Quantity   decimal.Decimal `json:"q"`
	Instrument string          `json:"instr_nm"`
	Type       int             `json:"type"`
	Price      decimal.Decimal `json:"p"`
}

// TradesHistory returns the trades executed between start and end,
// inclusive. The API filter is date-grained.
func (c *Client) TradesHistory(start, end time.Time) ([]Trade, error) {
	var payload struct {
		Trades struct {
			Trade []Trade `json:"trade"`
		} `json:"trades"`
	}
	params := map[string]any{
		"beginDate": start.UTC().Format("2006-01-02"),
		"endDate":   end.UTC().Format("2006-01-02"),
	}
	if err := c.do("getTradesHistory", params, &payload); err != nil {
		return nil, err
	}
	return payload.Trades.Trade, nil
}

// UserData returns the raw user data payload. It is a deeply nested blob of
// which the synchronizer needs exactly one leaf, so it stays generic and is
// plucked with a jsonpath.
func (c *Client) UserData() (any, error) {
	var payload any
	if err := c.do("getUserData", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
