package tradernet

import (
	"log"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

// Trade direction codes of the trades history endpoint.
const (
	buyTradeType  = 1
	sellTradeType = 3
)

// ignoredInstruments are synthetic instruments with no portfolio meaning,
// such as internal currency-conversion legs.
var ignoredInstruments = []string{"USD/EUR"}

// mainCashCurrency selects which sub-account balance is pushed downstream.
const mainCashCurrency = "EUR"

// tradeDateFormat is the naive UTC timestamp format of trade records.
const tradeDateFormat = "2006-01-02 15:04:05"

// Synchronizer produces activities for a Freedom24 brokerage account using a
// timestamp watermark: only trades strictly newer than the latest recorded
// activity are fetched, falling back to a configured historical start for an
// empty account.
type Synchronizer struct {
	client          *Client
	accountID       string
	historicalStart time.Time
}

// NewSynchronizer builds the synchronizer for one Ghostfolio account.
func NewSynchronizer(accountID string, client *Client, historicalStart time.Time) *Synchronizer {
	return &Synchronizer{client: client, accountID: accountID, historicalStart: historicalStart}
}

// AccountID implements ghostsync.Synchronizer.
func (s *Synchronizer) AccountID() string { return s.accountID }

// Activities implements ghostsync.Synchronizer.
func (s *Synchronizer) Activities(gate *ghostsync.Gate) ([]ghostsync.Activity, error) {
	watermark, err := gate.MaxDatetime(s.historicalStart)
	if err != nil {
		return nil, err
	}

	log.Printf("retrieving trades from %s onwards", watermark.Format(time.RFC3339))
	end := time.Now().UTC().AddDate(0, 0, -1)
	trades, err := s.client.TradesHistory(watermark, end)
	if err != nil {
		return nil, err
	}

	activities := make([]ghostsync.Activity, 0, len(trades))
	for _, trade := range trades {
		if slices.Contains(ignoredInstruments, trade.Instrument) {
			continue
		}

		executed, err := time.Parse(tradeDateFormat, trade.Date)
		if err != nil {
			return nil, ghostsync.Dataf("trade %s date %q: %v", trade.ID, trade.Date, err)
		}
		// The upstream date filter is date-grained, so the first fetched day
		// can contain trades already recorded; re-apply a strict comparison
		// on the full timestamp.
		if !executed.After(watermark) {
			continue
		}

		var typ ghostsync.ActivityType
		switch trade.Type {
		case buyTradeType:
			typ = ghostsync.Buy
		case sellTradeType:
			typ = ghostsync.Sell
		default:
			return nil, ghostsync.Configf("unmapped trade type %d on trade %s", trade.Type, trade.ID)
		}

		activities = append(activities, ghostsync.Activity{
			AccountID:  s.accountID,
			Comment:    ghostsync.Comment(trade.ID.String()),
			Currency:   trade.Currency,
			DataSource: ghostsync.SourceYahoo,
			Date:       executed,
			Fee:        trade.Commission.Abs(),
			Quantity:   trade.Quantity.Abs(),
			Symbol:     toYahoo(trade.Instrument),
			Type:       typ,
			UnitPrice:  trade.Price,
		})
	}
	return activities, nil
}

// CashBalance implements ghostsync.BalanceSyncer with the main currency
// sub-account balance.
func (s *Synchronizer) CashBalance() (*decimal.Decimal, error) {
	log.Printf("retrieving main account cash balance")
	data, err := s.client.UserData()
	if err != nil {
		return nil, err
	}

	raw, err := jsonpath.Get("$.OPQ.ps.acc", data)
	if err != nil {
		return nil, ghostsync.Dataf("user data cash accounts: %v", err)
	}
	accounts, ok := raw.([]any)
	if !ok {
		return nil, ghostsync.Dataf("user data cash accounts: not a list")
	}

	for _, a := range accounts {
		account, ok := a.(map[string]any)
		if !ok {
			continue
		}
		if account["curr"] != mainCashCurrency {
			continue
		}
		amount, ok := account["s"].(float64)
		if !ok {
			return nil, ghostsync.Dataf("user data cash balance: not a number")
		}
		balance := decimal.NewFromFloat(amount)
		return &balance, nil
	}
	return nil, ghostsync.Dataf("user data cash accounts: no %s account", mainCashCurrency)
}

// toYahoo remaps the broker's symbol suffix convention to Yahoo's: US-market
// suffixes are dropped, European ones map to their XETRA equivalent.
func toYahoo(symbol string) string {
	if trimmed, ok := strings.CutSuffix(symbol, ".US"); ok {
		return trimmed
	}
	if trimmed, ok := strings.CutSuffix(symbol, ".EU"); ok {
		return trimmed + ".DE"
	}
	return symbol
}
