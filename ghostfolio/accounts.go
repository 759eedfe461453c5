package ghostfolio

import (
	"net/http"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

// Platform is the trading platform attached to a Ghostfolio account.
type Platform struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AccountInfo is the full account record as returned by the accounts
// endpoint. The synchronizers only need the ghostsync.Account subset; the
// analyzer reads the allocation fields.
type AccountInfo struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Currency               string   `json:"currency"`
	PlatformID             string   `json:"platformId"`
	Balance                float64  `json:"balance"`
	IsExcluded             bool     `json:"isExcluded"`
	AllocationInPercentage float64  `json:"allocationInPercentage"`
	TransactionCount       int      `json:"transactionCount"`
	UpdatedAt              string   `json:"updatedAt"`
	Platform               Platform `json:"platform"`
}

// Accounts returns every account of the authenticated user.
func (c *Client) Accounts() ([]AccountInfo, error) {
	var payload struct {
		Accounts []AccountInfo `json:"accounts"`
	}
	if err := c.do(http.MethodGet, "/api/v1/account", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Accounts, nil
}

// Account returns one account by id. A nonexistent id is a configuration
// error: the operator pointed a platform at the wrong account.
func (c *Client) Account(id string) (ghostsync.Account, error) {
	accounts, err := c.Accounts()
	if err != nil {
		return ghostsync.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return ghostsync.Account{
				ID:         a.ID,
				Name:       a.Name,
				Currency:   a.Currency,
				PlatformID: a.PlatformID,
				Balance:    decimal.NewFromFloat(a.Balance),
			}, nil
		}
	}
	return ghostsync.Account{}, ghostsync.Configf("ghostfolio account %q does not exist", id)
}

// Weight is a named percentage used for sector and country exposures.
type Weight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Holding is the privacy-safe subset of a portfolio holding used for the
// LLM analysis: classification, allocation and relative performance only,
// no absolute values. The reduction happens here, at the decode boundary.
type Holding struct {
	Symbol                  string   `json:"symbol"`
	Name                    string   `json:"name"`
	AssetClass              string   `json:"assetClass"`
	AssetSubClass           string   `json:"assetSubClass"`
	Currency                string   `json:"currency"`
	AllocationInPercentage  float64  `json:"allocationInPercentage"`
	GrossPerformancePercent float64  `json:"grossPerformancePercent"`
	Sectors                 []Weight `json:"sectors"`
	Countries               []Weight `json:"countries"`
	Tags                    []string `json:"tags"`
	DateOfFirstActivity     string   `json:"dateOfFirstActivity"`
}

// Holdings returns the current portfolio holdings.
func (c *Client) Holdings() ([]Holding, error) {
	var payload struct {
		Holdings []Holding `json:"holdings"`
	}
	if err := c.do(http.MethodGet, "/api/v1/portfolio/holdings", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Holdings, nil
}
