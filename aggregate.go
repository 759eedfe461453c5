package ghostsync

import (
	"log"
	"slices"
	"strings"
)

// AggregateUTXO merges per-address transaction fragments sharing a chain
// transaction id into one net signed value per wallet-owned transaction.
// Fragments whose merged net value is zero are purely internal wallet
// movements and are dropped. The result is sorted by execution time.
func AggregateUTXO(pooled []UTXOTx) []CryptoTx {
	merged := make(map[string]CryptoTx, len(pooled))
	for _, tx := range pooled {
		if prev, ok := merged[tx.ID]; ok {
			log.Printf("merging fragmented transaction %q", tx.ID)
			prev.Value = prev.Value.Add(tx.Value)
			merged[tx.ID] = prev
			continue
		}
		merged[tx.ID] = tx.CryptoTx
	}

	txs := make([]CryptoTx, 0, len(merged))
	for _, tx := range merged {
		if tx.Value.IsZero() {
			continue
		}
		txs = append(txs, tx)
	}

	slices.SortFunc(txs, func(a, b CryptoTx) int {
		if c := a.ExecutedAt.Compare(b.ExecutedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return txs
}

// FlattenAccount maps account-model chain records 1:1 to normalized crypto
// transactions. The sign of each value was already resolved by the explorer
// client against the wallet's own address.
func FlattenAccount(txs []AccountTx) []CryptoTx {
	out := make([]CryptoTx, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.CryptoTx)
	}
	return out
}
