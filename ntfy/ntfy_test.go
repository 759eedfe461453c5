package ntfy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/shopspring/decimal"
)

func TestActivityMessage(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Activity(ghostsync.Activity{
		Type:      ghostsync.Buy,
		Date:      time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC),
		Quantity:  decimal.RequireFromString("0.005"),
		Symbol:    "bitcoin",
		UnitPrice: decimal.NewFromInt(60000),
		Currency:  "USD",
	})
	if err != nil {
		t.Fatalf("Activity() unexpected error = %v", err)
	}

	want := "2024-05-01 -> 🟢 BUY: +0.005 bitcoin @ 60000 USD"
	if body != want {
		t.Errorf("published message = %q, want %q", body, want)
	}
}

func TestActivityEveryTypeHasTemplate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	client := NewClient(server.URL)

	types := []ghostsync.ActivityType{
		ghostsync.Buy, ghostsync.Sell, ghostsync.Dividend,
		ghostsync.FeeCharge, ghostsync.Interest, ghostsync.Liability,
	}
	for _, typ := range types {
		if err := client.Activity(ghostsync.Activity{Type: typ}); err != nil {
			t.Errorf("Activity(%s) unexpected error = %v", typ, err)
		}
	}

	if err := client.Activity(ghostsync.Activity{Type: "ITEM"}); err == nil {
		t.Error("Activity() with an unknown type should fail")
	}
}

func TestPublishAnalysisHeaders(t *testing.T) {
	var title, file string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
		file = r.Header.Get("File")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.PublishAnalysis("Portfolio analysis", []byte("# report")); err != nil {
		t.Fatalf("PublishAnalysis() unexpected error = %v", err)
	}
	if title != "Portfolio analysis" {
		t.Errorf("Title header = %q", title)
	}
	if file == "" {
		t.Error("File header not set")
	}
}
