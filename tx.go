package ghostsync

import (
	"time"

	"github.com/shopspring/decimal"
)

// CryptoTx is a normalized on-chain transaction as seen from the wallet:
// one record per chain transaction id, with the net signed value in the
// chain's native unit (positive = inbound to the wallet).
type CryptoTx struct {
	ID         string
	Value      decimal.Decimal
	Fee        decimal.Decimal
	ExecutedAt time.Time
}

// UTXOTx is the per-address fragment of a transaction on a UTXO chain.
// A single on-chain transaction may touch several wallet addresses (spend
// from one, change to another); fragments sharing an ID are merged by
// AggregateUTXO before normalization.
type UTXOTx struct {
	CryptoTx

	// Address is the wallet-derived address that produced this fragment.
	Address string
}

// AccountTx is a transaction on an account-model chain. No merging is
// needed; each record maps 1:1 to a CryptoTx.
type AccountTx struct {
	CryptoTx

	// Block is the height the transaction was included at.
	Block int64
}
