package ghostsync

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// fakeDeriver derives synthetic "branch/index" addresses.
type fakeDeriver struct {
	derived []string
}

func (d *fakeDeriver) Derive(branch Branch, index uint32) (string, error) {
	address := fmt.Sprintf("%s/%d", branch, index)
	d.derived = append(d.derived, address)
	return address, nil
}

// fakeSource serves canned transactions per address and records each visit.
type fakeSource struct {
	txs     map[string][]UTXOTx
	visited []string
}

func (s *fakeSource) Transactions(address string) ([]UTXOTx, error) {
	s.visited = append(s.visited, address)
	return s.txs[address], nil
}

func utxo(id, address string, value string, at time.Time) UTXOTx {
	return UTXOTx{
		CryptoTx: CryptoTx{ID: id, Value: decimal.RequireFromString(value), ExecutedAt: at},
		Address:  address,
	}
}

func TestScanWalletGapLimitTermination(t *testing.T) {
	// Transactions at receive indices 0, 3 and 7 with gap limit 5: the
	// receive branch must visit indices 0 through 12 and stop there.
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{txs: map[string][]UTXOTx{
		"receive/0": {utxo("a", "receive/0", "1", at)},
		"receive/3": {utxo("b", "receive/3", "1", at)},
		"receive/7": {utxo("c", "receive/7", "1", at)},
	}}

	txs, err := ScanWallet(&fakeDeriver{}, source, 5)
	if err != nil {
		t.Fatalf("ScanWallet() unexpected error = %v", err)
	}
	if len(txs) != 3 {
		t.Errorf("ScanWallet() returned %d transactions, want 3", len(txs))
	}

	for i := 0; i <= 12; i++ {
		want := fmt.Sprintf("receive/%d", i)
		if !contains(source.visited, want) {
			t.Errorf("scanner did not visit %s", want)
		}
	}
	if contains(source.visited, "receive/13") {
		t.Error("scanner visited receive/13 past the gap limit")
	}
	// The empty change branch stops after exactly gapLimit addresses.
	if contains(source.visited, "change/5") {
		t.Error("scanner visited change/5 past the gap limit")
	}
}

func TestScanWalletPoolsBothBranches(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{txs: map[string][]UTXOTx{
		"receive/0": {utxo("a", "receive/0", "1", at)},
		"change/1":  {utxo("b", "change/1", "-1", at)},
	}}

	txs, err := ScanWallet(&fakeDeriver{}, source, 2)
	if err != nil {
		t.Fatalf("ScanWallet() unexpected error = %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("ScanWallet() returned %d transactions, want 2 (one per branch)", len(txs))
	}
}

func TestScanWalletAbortsOnSourceError(t *testing.T) {
	source := &errorSource{}
	if _, err := ScanWallet(&fakeDeriver{}, source, 2); err == nil {
		t.Error("ScanWallet() expected error from failing source, got nil")
	}
}

type errorSource struct{}

func (*errorSource) Transactions(string) ([]UTXOTx, error) {
	return nil, Transportf("boom")
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
