package ghostsync

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// TestBitcoinWalletPipeline drives the full scan → aggregate → normalize →
// reconcile chain: one on-chain transaction credits 0.01 BTC to a receive
// address and spends 0.005 BTC from a change address, so the wallet-level
// result must be a single buy of the 0.005 BTC net.
func TestBitcoinWalletPipeline(t *testing.T) {
	at := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{txs: map[string][]UTXOTx{
		"receive/0": {utxo("txid-1", "receive/0", "0.01", at)},
		"change/0":  {utxo("txid-1", "change/0", "-0.005", at)},
	}}

	pooled, err := ScanWallet(&fakeDeriver{}, source, 2)
	if err != nil {
		t.Fatalf("ScanWallet() unexpected error = %v", err)
	}
	merged := AggregateUTXO(pooled)
	if len(merged) != 1 {
		t.Fatalf("AggregateUTXO() = %d transactions, want 1 merged", len(merged))
	}

	prices := &fakePrices{price: decimal.NewFromInt(60000)}
	normalizer := CoinNormalizer{
		AccountID: "acc-btc",
		Coin:      "bitcoin",
		Prices:    NewPriceCache(prices),
	}
	gate := NewGate(&fakeReader{}, "acc-btc")
	activities, err := normalizer.Activities(merged, gate)
	if err != nil {
		t.Fatalf("Activities() unexpected error = %v", err)
	}

	if len(activities) != 1 {
		t.Fatalf("pipeline produced %d activities, want 1", len(activities))
	}
	a := activities[0]
	if a.Type != Buy {
		t.Errorf("type = %s, want %s", a.Type, Buy)
	}
	if !a.Quantity.Equal(decimal.RequireFromString("0.005")) {
		t.Errorf("quantity = %s, want 0.005", a.Quantity)
	}
	if a.Symbol != "bitcoin" {
		t.Errorf("symbol = %q, want %q", a.Symbol, "bitcoin")
	}
	if a.Key() != "txid-1" {
		t.Errorf("idempotency key = %q, want the merged txid", a.Key())
	}

	// A second pass against a downstream that now holds the activity must
	// produce nothing new.
	gate = NewGate(&fakeReader{activities: activities}, "acc-btc")
	again, err := normalizer.Activities(merged, gate)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("second pass produced %d activities, want 0", len(again))
	}
}
