package blockscout

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

const wallet = "0xAbCd000000000000000000000000000000000001"

func TestTransactionsSignAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"items": [
			{"hash": "0xin", "value": "2000000000000000000", "timestamp": "2024-04-01T10:00:00Z",
			 "status": "ok", "block_number": 100, "fee": {"value": "21000000000000"},
			 "from": {"hash": "0xSomeoneElse"}},
			{"hash": "0xout", "value": "500000000000000000", "timestamp": "2024-04-02T10:00:00Z",
			 "status": "ok", "block_number": 101, "fee": {"value": "21000000000000"},
			 "from": {"hash": %q}},
			{"hash": "0xfailed", "value": "1", "timestamp": "2024-04-03T10:00:00Z",
			 "status": "error", "block_number": 102, "fee": {"value": "0"},
			 "from": {"hash": %q}}
		], "next_page_params": null}`, wallet, wallet)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	txs, err := client.Transactions(wallet)
	if err != nil {
		t.Fatalf("Transactions() unexpected error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("Transactions() = %d transactions, want 2 (failed one dropped)", len(txs))
	}

	in := txs[0]
	if !in.Value.Equal(decimal.NewFromInt(2)) {
		t.Errorf("incoming value = %s ETH, want 2", in.Value)
	}
	out := txs[1]
	if !out.Value.Equal(decimal.RequireFromString("-0.5")) {
		t.Errorf("outgoing value = %s ETH, want -0.5", out.Value)
	}
	if !out.Fee.Equal(decimal.RequireFromString("0.000021")) {
		t.Errorf("fee = %s ETH, want 0.000021", out.Fee)
	}
}

func TestTransactionsFollowsCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("block_number") == "" {
			fmt.Fprint(w, `{"items": [
				{"hash": "0xa", "value": "1000000000000000000", "timestamp": "2024-04-02T10:00:00Z",
				 "status": "ok", "block_number": 200, "fee": {"value": "0"}, "from": {"hash": "0xother"}}
			], "next_page_params": {"block_number": 199, "index": 0}}`)
			return
		}
		if got := r.URL.Query().Get("block_number"); got != "199" {
			t.Errorf("cursor block_number = %q, want 199 exactly", got)
		}
		fmt.Fprint(w, `{"items": [
			{"hash": "0xb", "value": "1000000000000000000", "timestamp": "2024-04-01T10:00:00Z",
			 "status": "ok", "block_number": 199, "fee": {"value": "0"}, "from": {"hash": "0xother"}}
		], "next_page_params": null}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	txs, err := client.Transactions(wallet)
	if err != nil {
		t.Fatalf("Transactions() unexpected error = %v", err)
	}
	if len(txs) != 2 || txs[0].ID != "0xa" || txs[1].ID != "0xb" {
		t.Errorf("Transactions() = %v, want 0xa then 0xb across both pages", txs)
	}
}
