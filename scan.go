package ghostsync

import "log"

// Branch selects a derivation branch of an HD wallet.
type Branch uint32

const (
	// Receive is the external branch (BIP-44 change level 0).
	Receive Branch = 0
	// Change is the internal branch (BIP-44 change level 1).
	Change Branch = 1
)

func (b Branch) String() string {
	switch b {
	case Receive:
		return "receive"
	case Change:
		return "change"
	}
	return "unknown"
}

// AddressDeriver derives wallet addresses by branch and index. Derivation is
// a pure function of its inputs.
type AddressDeriver interface {
	Derive(branch Branch, index uint32) (string, error)
}

// AddressSource lists the confirmed transaction fragments touching a single
// address, each with the net value contributed by that address.
type AddressSource interface {
	Transactions(address string) ([]UTXOTx, error)
}

// DefaultGapLimit is the standard HD wallet gap limit: a branch is
// considered exhausted after this many consecutive unused addresses.
const DefaultGapLimit = 20

// ScanWallet walks both derivation branches of a wallet, querying source for
// every derived address and stopping each branch after gapLimit consecutive
// addresses with no transactions. Results from both branches are pooled.
//
// Any source error aborts the whole scan: a partial result would make the
// aggregated net values wrong.
func ScanWallet(deriver AddressDeriver, source AddressSource, gapLimit int) ([]UTXOTx, error) {
	if gapLimit <= 0 {
		gapLimit = DefaultGapLimit
	}

	var pooled []UTXOTx
	for _, branch := range []Branch{Receive, Change} {
		txs, err := scanBranch(deriver, source, branch, gapLimit)
		if err != nil {
			return nil, err
		}
		pooled = append(pooled, txs...)
	}
	return pooled, nil
}

func scanBranch(deriver AddressDeriver, source AddressSource, branch Branch, gapLimit int) ([]UTXOTx, error) {
	log.Printf("scanning %s branch (gap limit %d)", branch, gapLimit)

	var found []UTXOTx
	consecutiveEmpty := 0
	for index := uint32(0); consecutiveEmpty < gapLimit; index++ {
		address, err := deriver.Derive(branch, index)
		if err != nil {
			return nil, err
		}

		txs, err := source.Transactions(address)
		if err != nil {
			return nil, err
		}

		if len(txs) > 0 {
			consecutiveEmpty = 0
			found = append(found, txs...)
		} else {
			consecutiveEmpty++
		}
	}
	return found, nil
}
