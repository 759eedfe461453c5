// Package blockscout reads address transactions from a Blockscout v2 API
// (account-model chains).
package blockscout

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public Ethereum Blockscout instance.
const DefaultBaseURL = "https://eth.blockscout.com"

// Client queries one Blockscout instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the explorer at baseURL (DefaultBaseURL when
// empty), optionally routing through an HTTP proxy.
func NewClient(baseURL, proxyURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := new(http.Client)
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, ghostsync.Configf("malformed proxy url %q: %v", proxyURL, err)
		}
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}, nil
}

type item struct {
	Hash      string    `json:"hash"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Block     int64     `json:"block_number"`
	Fee       struct {
		Value string `json:"value"`
	} `json:"fee"`
	From struct {
		Hash string `json:"hash"`
	} `json:"from"`
}

type page struct {
	Items          []item         `json:"items"`
	NextPageParams map[string]any `json:"next_page_params"`
}

// Transactions lists every successful transaction of the address, newest
// first, following the cursor pagination to the end. The value sign is
// resolved against the wallet's own address: outgoing transfers are
// negative.
func (c *Client) Transactions(address string) ([]ghostsync.AccountTx, error) {
	var txs []ghostsync.AccountTx

	cursor := url.Values{}
	for {
		p, err := c.page(address, cursor)
		if err != nil {
			return nil, err
		}

		for _, it := range p.Items {
			if it.Status != "ok" {
				continue
			}
			value, err := weiToETH(it.Value)
			if err != nil {
				return nil, ghostsync.Dataf("explorer tx %s value: %v", it.Hash, err)
			}
			fee, err := weiToETH(it.Fee.Value)
			if err != nil {
				return nil, ghostsync.Dataf("explorer tx %s fee: %v", it.Hash, err)
			}
			if strings.EqualFold(it.From.Hash, address) {
				value = value.Neg()
			}
			txs = append(txs, ghostsync.AccountTx{
				CryptoTx: ghostsync.CryptoTx{
					ID:         it.Hash,
					Value:      value,
					Fee:        fee,
					ExecutedAt: it.Timestamp.UTC(),
				},
				Block: it.Block,
			})
		}

		if p.NextPageParams == nil {
			return txs, nil
		}
		cursor = url.Values{}
		for k, v := range p.NextPageParams {
			cursor.Set(k, fmt.Sprint(v))
		}
	}
}

func (c *Client) page(address string, cursor url.Values) (page, error) {
	addr := fmt.Sprintf("%s/api/v2/addresses/%s/transactions", c.baseURL, address)
	if len(cursor) > 0 {
		addr += "?" + cursor.Encode()
	}

	resp, err := c.http.Get(addr)
	if err != nil {
		return page{}, ghostsync.Transportf("explorer address %s: %v", address, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return page{}, ghostsync.Transportf("explorer address %s: %s", address, resp.Status)
	}

	var p page
	// UseNumber keeps cursor values intact: block numbers must not round-trip
	// through float64 on their way back into the next query.
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&p); err != nil {
		return page{}, ghostsync.Dataf("explorer address %s: %v", address, err)
	}
	return p, nil
}

func weiToETH(wei string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(wei)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return value.Shift(-18), nil
}
