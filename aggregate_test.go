package ghostsync

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAggregateUTXODropsZeroNet(t *testing.T) {
	// A spend from one wallet address with change back to another nets to
	// zero: a purely internal movement with no economic meaning.
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	pooled := []UTXOTx{
		utxo("tx1", "receive/0", "0.5", at),
		utxo("tx1", "change/0", "-0.5", at),
	}

	if txs := AggregateUTXO(pooled); len(txs) != 0 {
		t.Errorf("AggregateUTXO() = %d transactions, want 0", len(txs))
	}
}

func TestAggregateUTXOMergesFragments(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	pooled := []UTXOTx{
		utxo("tx1", "receive/0", "0.5", at),
		utxo("tx1", "receive/1", "0.3", at),
	}

	txs := AggregateUTXO(pooled)
	if len(txs) != 1 {
		t.Fatalf("AggregateUTXO() = %d transactions, want 1", len(txs))
	}
	if !txs[0].Value.Equal(decimal.RequireFromString("0.8")) {
		t.Errorf("merged value = %s, want 0.8", txs[0].Value)
	}
}

func TestAggregateUTXOSortsByExecutionTime(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	pooled := []UTXOTx{
		utxo("late", "receive/0", "1", late),
		utxo("early", "receive/0", "1", early),
	}

	txs := AggregateUTXO(pooled)
	if len(txs) != 2 || txs[0].ID != "early" || txs[1].ID != "late" {
		t.Errorf("AggregateUTXO() order = %v, want [early late]", txs)
	}
}

func TestFlattenAccount(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	txs := FlattenAccount([]AccountTx{
		{CryptoTx: CryptoTx{ID: "0xabc", Value: decimal.RequireFromString("-0.2"), ExecutedAt: at}, Block: 19000000},
	})
	if len(txs) != 1 || txs[0].ID != "0xabc" {
		t.Fatalf("FlattenAccount() = %v, want the single record mapped 1:1", txs)
	}
}
