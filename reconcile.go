package ghostsync

import (
	"time"
)

// ActivityReader reads the activities already recorded downstream for an
// account.
type ActivityReader interface {
	Activities(accountID string) ([]Activity, error)
}

// Epoch is the watermark fallback when an account has no recorded activity.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Gate computes the "new since last sync" frontier for one account, either
// as a set of previously seen idempotency keys or as the latest recorded
// activity timestamp. The downstream state is fetched at most once per Gate;
// a Gate lives for a single run and is never cached across runs.
type Gate struct {
	reader    ActivityReader
	accountID string

	fetched    bool
	activities []Activity
	keys       map[string]struct{}
}

// NewGate builds a gate for one account backed by the downstream service.
func NewGate(reader ActivityReader, accountID string) *Gate {
	return &Gate{reader: reader, accountID: accountID}
}

func (g *Gate) existing() ([]Activity, error) {
	if g.fetched {
		return g.activities, nil
	}
	activities, err := g.reader.Activities(g.accountID)
	if err != nil {
		return nil, err
	}
	g.activities = activities
	g.keys = make(map[string]struct{}, len(activities))
	for _, a := range activities {
		g.keys[a.Key()] = struct{}{}
	}
	g.fetched = true
	return g.activities, nil
}

// Seen reports whether an idempotency key is already recorded downstream.
func (g *Gate) Seen(key string) (bool, error) {
	if _, err := g.existing(); err != nil {
		return false, err
	}
	_, ok := g.keys[key]
	return ok, nil
}

// FilterNew drops every candidate whose idempotency key is already recorded
// downstream. An activity accepted downstream is never resubmitted.
func (g *Gate) FilterNew(candidates []Activity) ([]Activity, error) {
	fresh := make([]Activity, 0, len(candidates))
	for _, a := range candidates {
		seen, err := g.Seen(a.Key())
		if err != nil {
			return nil, err
		}
		if !seen {
			fresh = append(fresh, a)
		}
	}
	return fresh, nil
}

// MaxDatetime returns the latest effective date among the account's recorded
// activities, or fallback when there are none. Platforms with date-filterable
// upstream queries use it as the lower bound of the next fetch; because some
// upstream filters are date-grained, callers must still re-apply a strict
// greater-than comparison once full timestamps are available.
func (g *Gate) MaxDatetime(fallback time.Time) (time.Time, error) {
	activities, err := g.existing()
	if err != nil {
		return time.Time{}, err
	}
	if len(activities) == 0 {
		return fallback, nil
	}
	max := activities[0].Date
	for _, a := range activities[1:] {
		if a.Date.After(max) {
			max = a.Date
		}
	}
	return max, nil
}
