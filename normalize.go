package ghostsync

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource looks up a reference-currency (USD) spot price for a coin on a
// given day.
type PriceSource interface {
	History(coin string, day time.Time) (decimal.Decimal, error)
}

type pricePoint struct {
	coin string
	day  string
}

// PriceCache memoizes price lookups per (coin, day) for the duration of one
// sync unit. The same day is requested for both the unit price and the fee
// valuation of a transaction, and usually across several transactions.
// Construct a fresh cache per run; it is never invalidated.
type PriceCache struct {
	source PriceSource
	memo   map[pricePoint]decimal.Decimal
}

// NewPriceCache wraps source with a request-scoped memo.
func NewPriceCache(source PriceSource) *PriceCache {
	return &PriceCache{source: source, memo: make(map[pricePoint]decimal.Decimal)}
}

// History implements PriceSource.
func (c *PriceCache) History(coin string, day time.Time) (decimal.Decimal, error) {
	point := pricePoint{coin, day.UTC().Format("2006-01-02")}
	if price, ok := c.memo[point]; ok {
		return price, nil
	}
	price, err := c.source.History(coin, day)
	if err != nil {
		return decimal.Decimal{}, err
	}
	c.memo[point] = price
	return price, nil
}

// CoinNormalizer converts normalized crypto transactions of a single coin
// into canonical activities: net value sign resolves the activity type,
// historical USD prices value both the unit price and the native-unit fee.
type CoinNormalizer struct {
	AccountID string

	// Coin is the price oracle's coin id; it doubles as the activity symbol.
	Coin string

	Prices PriceSource

	// DelayDays shifts the price lookup date back from the execution date,
	// for wallets whose transactions settle with a delay.
	DelayDays int
}

// Activities builds one activity per transaction, skipping transactions the
// gate already knows about so that no price is looked up for them.
func (n CoinNormalizer) Activities(txs []CryptoTx, gate *Gate) ([]Activity, error) {
	activities := make([]Activity, 0, len(txs))
	for _, tx := range txs {
		seen, err := gate.Seen(tx.ID)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}

		day := tx.ExecutedAt.UTC().AddDate(0, 0, -n.DelayDays)
		price, err := n.Prices.History(n.Coin, day)
		if err != nil {
			return nil, err
		}

		typ := Sell
		if tx.Value.IsPositive() {
			typ = Buy
		}

		activities = append(activities, Activity{
			AccountID:  n.AccountID,
			Comment:    Comment(tx.ID),
			Currency:   "USD",
			DataSource: SourceCoinGecko,
			Date:       tx.ExecutedAt,
			Fee:        tx.Fee.Mul(price),
			Quantity:   tx.Value.Abs(),
			Symbol:     n.Coin,
			Type:       typ,
			UnitPrice:  price,
		})
	}

	log.Printf("normalized %d new %q transactions", len(activities), n.Coin)
	return activities, nil
}
