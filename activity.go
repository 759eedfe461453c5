// Package ghostsync synchronizes brokerage and crypto wallet transaction
// history into a Ghostfolio instance.
//
// The core of the package is a reconciliation pipeline: platform
// synchronizers produce candidate activities, a per-account gate filters out
// anything the downstream service already knows about, and a generic driver
// submits what survives. Ghostfolio is the single source of truth for "what
// has already been recorded"; this package keeps no state of its own.
package ghostsync

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType is the categorical type of a Ghostfolio activity.
type ActivityType string

const (
	Buy       ActivityType = "BUY"
	Sell      ActivityType = "SELL"
	Dividend  ActivityType = "DIVIDEND"
	FeeCharge ActivityType = "FEE"
	Interest  ActivityType = "INTEREST"
	Liability ActivityType = "LIABILITY"
)

// DataSource identifies which price provider Ghostfolio should use for the
// activity's symbol.
type DataSource string

const (
	SourceCoinGecko  DataSource = "COINGECKO"
	SourceGhostfolio DataSource = "GHOSTFOLIO"
	SourceManual     DataSource = "MANUAL"
	SourceYahoo      DataSource = "YAHOO"
)

// commentPrefix prefixes every idempotency key embedded in an activity
// comment. The remainder of the comment is the platform-native reference and
// is the sole deduplication key.
const commentPrefix = "ID: "

// Comment builds the idempotency comment for a platform-native reference.
func Comment(id string) string { return commentPrefix + id }

// Key strips the idempotency prefix from an activity comment.
func Key(comment string) string { return strings.TrimPrefix(comment, commentPrefix) }

// Activity is the unit of reconciliation, shaped after Ghostfolio's import
// format. It is constructed transiently for one sync run, submitted once and
// never mutated.
type Activity struct {
	AccountID  string
	Comment    string
	Currency   string
	DataSource DataSource
	Date       time.Time
	Fee        decimal.Decimal
	Quantity   decimal.Decimal
	Symbol     string
	Type       ActivityType
	UnitPrice  decimal.Decimal
}

// Key returns the activity's idempotency key: the comment with the fixed
// prefix stripped. It is stable across runs for the same underlying platform
// transaction.
func (a Activity) Key() string { return Key(a.Comment) }

// Account is the subset of a Ghostfolio account record the synchronizers
// need to read back and update.
type Account struct {
	ID         string
	Name       string
	Currency   string
	PlatformID string
	Balance    decimal.Decimal
}
