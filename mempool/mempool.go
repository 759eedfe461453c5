// Package mempool reads confirmed per-address transactions from a
// mempool.space compatible block explorer API.
package mempool

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

// DefaultBaseURL is the public mempool.space API.
const DefaultBaseURL = "https://mempool.space/api"

// txPageSize is the number of confirmed transactions the explorer returns
// per page.
const txPageSize = 25

// Client queries one explorer instance.
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

// wire shapes of the explorer's transaction payload.
type (
	output struct {
		ScriptpubkeyAddress string `json:"scriptpubkey_address"`
		Value               int64  `json:"value"`
	}
	input struct {
		Prevout output `json:"prevout"`
	}
	transaction struct {
		Txid   string `json:"txid"`
		Vin    []input
		Vout   []output
		Status struct {
			Confirmed bool  `json:"confirmed"`
			BlockTime int64 `json:"block_time"`
		} `json:"status"`
	}
)

// Transactions lists every confirmed transaction touching the address, each
// reduced to the net value the address contributed: outputs paid to it minus
// inputs previously held by it and now spent. It implements
// ghostsync.AddressSource.
func (c *Client) Transactions(address string) ([]ghostsync.UTXOTx, error) {
	var txs []ghostsync.UTXOTx

	lastSeen := ""
	for {
		page, err := c.confirmedPage(address, lastSeen)
		if err != nil {
			return nil, err
		}
		for _, tx := range page {
			txs = append(txs, ghostsync.UTXOTx{
				CryptoTx: ghostsync.CryptoTx{
					ID:         tx.Txid,
					Value:      satsToBTC(netValue(tx, address)),
					Fee:        decimal.Zero,
					ExecutedAt: time.Unix(tx.Status.BlockTime, 0).UTC(),
				},
				Address: address,
			})
		}
		if len(page) < txPageSize {
			return txs, nil
		}
		lastSeen = page[len(page)-1].Txid
	}
}

// confirmedPage fetches one page of confirmed transactions, starting after
// lastSeen when set.
func (c *Client) confirmedPage(address, lastSeen string) ([]transaction, error) {
	addr := fmt.Sprintf("%s/address/%s/txs/chain", c.baseURL, address)
	if lastSeen != "" {
		addr += "/" + lastSeen
	}

	resp, err := c.http.Get(addr)
	if err != nil {
		return nil, ghostsync.Transportf("explorer address %s: %v", address, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ghostsync.Transportf("explorer address %s: %s", address, resp.Status)
	}

	var page []transaction
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, ghostsync.Dataf("explorer address %s: %v", address, err)
	}
	return page, nil
}

// netValue computes the net sats the address gained in the transaction.
func netValue(tx transaction, address string) int64 {
	var value int64
	for _, out := range tx.Vout {
		if out.ScriptpubkeyAddress == address {
			value += out.Value
		}
	}
	for _, in := range tx.Vin {
		if in.Prevout.ScriptpubkeyAddress == address {
			value -= in.Prevout.Value
		}
	}
	return value
}

func satsToBTC(sats int64) decimal.Decimal { return decimal.New(sats, -8) }
