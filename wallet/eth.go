package wallet

import (
	"log"

	"github.com/gontzalm/ghostsync"
	"github.com/gontzalm/ghostsync/blockscout"
)

// ETH synchronizes a single Ethereum address. Account-model chains need no
// derivation or fragment merging; the explorer records map 1:1 to normalized
// transactions.
type ETH struct {
	accountID string
	address   string
	explorer  *blockscout.Client
	prices    ghostsync.PriceSource
	delayDays int
}

// NewETH builds the synchronizer for one address.
func NewETH(accountID, address string, explorer *blockscout.Client, prices ghostsync.PriceSource, delayDays int) *ETH {
	return &ETH{
		accountID: accountID,
		address:   address,
		explorer:  explorer,
		prices:    prices,
		delayDays: delayDays,
	}
}

// AccountID implements ghostsync.Synchronizer.
func (s *ETH) AccountID() string { return s.accountID }

// Activities implements ghostsync.Synchronizer.
func (s *ETH) Activities(gate *ghostsync.Gate) ([]ghostsync.Activity, error) {
	log.Printf("retrieving ETH transactions for account %q", s.accountID)

	txs, err := s.explorer.Transactions(s.address)
	if err != nil {
		return nil, err
	}

	normalizer := ghostsync.CoinNormalizer{
		AccountID: s.accountID,
		Coin:      "ethereum",
		Prices:    ghostsync.NewPriceCache(s.prices),
		DelayDays: s.delayDays,
	}
	return normalizer.Activities(ghostsync.FlattenAccount(txs), gate)
}
