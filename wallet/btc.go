// Package wallet implements the crypto platform synchronizers: a BIP-84
// Bitcoin wallet scanned through a UTXO explorer, and an Ethereum address
// read from an account-model explorer.
package wallet

import (
	"log"

	"github.com/gontzalm/ghostsync"
	"github.com/gontzalm/ghostsync/hdwallet"
	"github.com/gontzalm/ghostsync/mempool"
)

// BTC synchronizes a Bitcoin HD wallet: derive addresses, scan both branches
// up to the gap limit, merge per-address fragments and normalize the result.
type BTC struct {
	accountID string
	wallet    *hdwallet.Wallet
	explorer  *mempool.Client
	prices    ghostsync.PriceSource
	delayDays int
	gapLimit  int
}

// NewBTC builds the synchronizer for one wallet extended public key.
func NewBTC(accountID, zpub string, explorer *mempool.Client, prices ghostsync.PriceSource, delayDays int) (*BTC, error) {
	w, err := hdwallet.New(zpub)
	if err != nil {
		return nil, err
	}
	return &BTC{
		accountID: accountID,
		wallet:    w,
		explorer:  explorer,
		prices:    prices,
		delayDays: delayDays,
		gapLimit:  ghostsync.DefaultGapLimit,
	}, nil
}

// AccountID implements ghostsync.Synchronizer.
func (s *BTC) AccountID() string { return s.accountID }

// Activities implements ghostsync.Synchronizer.
func (s *BTC) Activities(gate *ghostsync.Gate) ([]ghostsync.Activity, error) {
	log.Printf("retrieving BTC transactions for account %q", s.accountID)

	pooled, err := ghostsync.ScanWallet(s.wallet, s.explorer, s.gapLimit)
	if err != nil {
		return nil, err
	}
	merged := ghostsync.AggregateUTXO(pooled)

	normalizer := ghostsync.CoinNormalizer{
		AccountID: s.accountID,
		Coin:      "bitcoin",
		Prices:    ghostsync.NewPriceCache(s.prices),
		DelayDays: s.delayDays,
	}
	return normalizer.Activities(merged, gate)
}
