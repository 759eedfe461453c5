// Package ntfy publishes push notifications to an ntfy topic: one short
// message per newly recorded activity, and markdown attachments for
// portfolio analyses.
package ntfy

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/gontzalm/ghostsync"
)

// One message template per activity type.
var templates = map[ghostsync.ActivityType]*template.Template{
	ghostsync.Buy:       message("{{.Date}} -> 🟢 {{.Type}}: +{{.Quantity}} {{.Symbol}} @ {{.UnitPrice}} {{.Currency}}"),
	ghostsync.Sell:      message("{{.Date}} -> 🔴 {{.Type}}: -{{.Quantity}} {{.Symbol}} @ {{.UnitPrice}} {{.Currency}}"),
	ghostsync.Dividend:  message("{{.Date}} -> 💰 {{.Type}} {{.Symbol}}: {{.Quantity}} uds @ {{.UnitPrice}} {{.Currency}}"),
	ghostsync.FeeCharge: message("{{.Date}} -> 💸 {{.Type}} {{.Symbol}} -{{.Fee}} {{.Currency}}"),
	ghostsync.Interest:  message("{{.Date}} -> 🌱 {{.Type}} {{.Symbol}} +{{.Quantity}} units ({{.Comment}})"),
	ghostsync.Liability: message("{{.Date}} -> 📉 {{.Type}} {{.Symbol}} Val: {{.UnitPrice}} {{.Currency}} | {{.Comment}}"),
}

func message(text string) *template.Template {
	return template.Must(template.New("").Parse(text))
}

// Client publishes to one ntfy topic URL.
type Client struct {
	topic string
	http  *http.Client
}

// NewClient builds a client for a full topic URL, e.g. "https://ntfy.sh/sync".
func NewClient(topic string) *Client {
	return &Client{topic: strings.TrimSuffix(topic, "/"), http: new(http.Client)}
}

// Activity implements ghostsync.Notifier: one formatted message per
// activity type.
func (c *Client) Activity(a ghostsync.Activity) error {
	tmpl, ok := templates[a.Type]
	if !ok {
		return ghostsync.Configf("no notification template for activity type %q", a.Type)
	}

	var body bytes.Buffer
	err := tmpl.Execute(&body, map[string]any{
		"Date":      a.Date.Format("2006-01-02"),
		"Type":      a.Type,
		"Quantity":  a.Quantity,
		"Symbol":    a.Symbol,
		"UnitPrice": a.UnitPrice,
		"Currency":  a.Currency,
		"Fee":       a.Fee,
		"Comment":   a.Comment,
	})
	if err != nil {
		return err
	}

	resp, err := c.http.Post(c.topic, "text/plain", &body)
	if err != nil {
		return ghostsync.Transportf("ntfy publish: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ghostsync.Transportf("ntfy publish: %s", resp.Status)
	}
	return nil
}

// PublishAnalysis uploads a markdown document as a named attachment.
func (c *Client) PublishAnalysis(title string, markdown []byte) error {
	req, err := http.NewRequest(http.MethodPut, c.topic, bytes.NewReader(markdown))
	if err != nil {
		return err
	}
	req.Header.Set("Title", title)
	req.Header.Set("Tags", "chart_with_upwards_trend")
	req.Header.Set("File", fmt.Sprintf("analysis-%s.md", time.Now().UTC().Format("2006-01-02")))

	resp, err := c.http.Do(req)
	if err != nil {
		return ghostsync.Transportf("ntfy analysis upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ghostsync.Transportf("ntfy analysis upload: %s", resp.Status)
	}
	return nil
}
