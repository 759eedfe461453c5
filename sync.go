package ghostsync

import (
	"errors"
	"log"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Service is the downstream Ghostfolio surface the driver needs.
type Service interface {
	ActivityReader
	Account(id string) (Account, error)
	ImportActivities(activities []Activity) error
	UpdateBalance(account Account, balance decimal.Decimal) error
}

// Synchronizer produces candidate activities for one platform account.
// The gate is handed in so platforms that can bound their upstream fetch
// (timestamp watermark) or skip expensive work for known records (price
// lookups) may consult it; the driver re-applies the key filter regardless.
type Synchronizer interface {
	AccountID() string
	Activities(gate *Gate) ([]Activity, error)
}

// BalanceSyncer is implemented by synchronizers that can report the
// platform's current cash balance. A nil balance means nothing to push.
type BalanceSyncer interface {
	CashBalance() (*decimal.Decimal, error)
}

// PostSyncer is implemented by synchronizers with platform-specific work to
// do after activities are imported, e.g. pushing manual market data.
type PostSyncer interface {
	PostSync() error
}

// Notifier announces each newly recorded activity on a side channel.
type Notifier interface {
	Activity(a Activity) error
}

// Run processes each synchronizer fully and sequentially: produce candidates,
// filter through the reconciliation gate, import, notify, then push the cash
// balance and run post-sync actions where the platform supports them.
//
// A failing unit aborts without submitting partial results, but does not stop
// the remaining units; the joined error reports every failed unit.
func Run(service Service, notifier Notifier, synchronizers ...Synchronizer) error {
	var errs []error
	for _, s := range synchronizers {
		if err := runOne(service, notifier, s); err != nil {
			log.Printf("account %q: sync failed: %v", s.AccountID(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runOne(service Service, notifier Notifier, s Synchronizer) error {
	gate := NewGate(service, s.AccountID())

	candidates, err := s.Activities(gate)
	if err != nil {
		return err
	}
	fresh, err := gate.FilterNew(candidates)
	if err != nil {
		return err
	}

	log.Printf("synchronizing %d activities to account %q", len(fresh), s.AccountID())
	if len(fresh) > 0 {
		if err := service.ImportActivities(fresh); err != nil {
			return err
		}
	}

	if notifier != nil {
		for _, a := range fresh {
			if err := notifier.Activity(a); err != nil {
				// The activity is already recorded; a lost notification is
				// not worth failing the unit over.
				log.Printf("notification for %q failed: %v", a.Key(), err)
			}
		}
	}

	if bs, ok := s.(BalanceSyncer); ok {
		balance, err := bs.CashBalance()
		if err != nil {
			return err
		}
		if balance != nil {
			account, err := service.Account(s.AccountID())
			if err != nil {
				return err
			}
			log.Printf("updating cash balance of account %q to %s",
				account.Name, formatBalance(*balance, account.Currency))
			if err := service.UpdateBalance(account, *balance); err != nil {
				return err
			}
		}
	}

	if ps, ok := s.(PostSyncer); ok {
		if err := ps.PostSync(); err != nil {
			return err
		}
	}
	return nil
}

// formatBalance renders a balance with its currency symbol for logs.
func formatBalance(balance decimal.Decimal, currency string) string {
	// the Money constructor is the only way to get a never-nil currency
	cur := money.New(0, currency).Currency()
	minor := balance.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
