package indexa

import (
	"log"
	"slices"
	"strings"
	"time"

	"github.com/gontzalm/ghostsync"
	"github.com/gontzalm/ghostsync/ghostfolio"
	"github.com/shopspring/decimal"
)

// AccountType selects the Indexa product behind the account.
type AccountType string

const (
	// Mutual accounts hold Yahoo-priced funds and carry cash and fee
	// postings.
	Mutual AccountType = "mutual"
	// Pension accounts hold manually priced pension funds; their NAV is
	// pushed as market data after each sync.
	Pension AccountType = "pension"
)

// Operation type codes of the Indexa ledger.
var (
	buyOperations = []string{
		"ALTA IIC SWITCH",
		"SUSCRIPCIÓN FONDOS INVERSIÓN",
		"APORTACION A PLAN DE PENSIONES",
	}
	sellOperations = []string{"BAJA IIC SWITCH", "REEMBOLSO FONDOS INVERSIÓN"}
	feeOperations  = []string{"CUSTODIA INVERSIS", "CARGO COMISION GESTION"}
)

// Fee posting symbols, as registered manually in Ghostfolio.
const (
	custodyFeeSymbol    = "GF_INDEXA_CUST_FEE"
	managementFeeSymbol = "GF_INDEXA_MGMT_FEE"
)

// pensionFunds maps Indexa's pension fund display names to the manual
// symbols registered in Ghostfolio.
var pensionFunds = map[string]string{
	"Indexa Más Rentabilidad Acciones PP": "GF_INDEXA_PENSION_EQ",
	"Indexa Más Rentabilidad Bonos PP":    "GF_INDEXA_PENSION_FI",
}

// Synchronizer produces activities for an Indexa Capital account. Indexa's
// endpoints cannot be filtered by date and backdated fee postings happen, so
// it returns the full candidate window and relies on the key-set gate.
type Synchronizer struct {
	client      *Client
	gf          *ghostfolio.Client
	accountID   string
	accountType AccountType
}

// NewSynchronizer builds the synchronizer for one Ghostfolio account. The
// Ghostfolio client is used by pension accounts to push NAV market data.
func NewSynchronizer(accountID string, client *Client, gf *ghostfolio.Client, accountType AccountType) *Synchronizer {
	return &Synchronizer{client: client, gf: gf, accountID: accountID, accountType: accountType}
}

// AccountID implements ghostsync.Synchronizer.
func (s *Synchronizer) AccountID() string { return s.accountID }

// Activities implements ghostsync.Synchronizer.
func (s *Synchronizer) Activities(_ *ghostsync.Gate) ([]ghostsync.Activity, error) {
	activities, err := s.instrumentActivities()
	if err != nil {
		return nil, err
	}
	fees, err := s.feeActivities()
	if err != nil {
		return nil, err
	}
	return append(activities, fees...), nil
}

func (s *Synchronizer) instrumentActivities() ([]ghostsync.Activity, error) {
	log.Printf("retrieving instrument transactions for account number %q", s.client.accountNumber)
	txs, err := s.client.InstrumentTransactions()
	if err != nil {
		return nil, err
	}

	activities := make([]ghostsync.Activity, 0, len(txs))
	for _, tx := range txs {
		var typ ghostsync.ActivityType
		switch {
		case slices.Contains(buyOperations, tx.OperationType):
			typ = ghostsync.Buy
		case slices.Contains(sellOperations, tx.OperationType):
			typ = ghostsync.Sell
		default:
			return nil, ghostsync.Configf("unmapped operation type %q on transaction %q",
				tx.OperationType, tx.Reference)
		}

		symbol := tx.Instrument.ISIN
		source := ghostsync.SourceYahoo
		if s.accountType == Pension {
			source = ghostsync.SourceManual
			symbol, err = pensionFundSymbol(tx.Instrument.Name)
			if err != nil {
				return nil, err
			}
		}

		// The endpoint reports datetimes, but executions settle at day
		// granularity; keep the date part only.
		day, _, _ := strings.Cut(tx.ExecutedAt, " ")
		date, err := parseDay(day)
		if err != nil {
			return nil, ghostsync.Dataf("transaction %q date %q: %v", tx.Reference, tx.ExecutedAt, err)
		}

		activities = append(activities, ghostsync.Activity{
			AccountID:  s.accountID,
			Comment:    ghostsync.Comment(tx.Reference),
			Currency:   tx.Currency,
			DataSource: source,
			Date:       date,
			Fee:        decimal.Zero,
			Quantity:   tx.Titles.Abs(),
			Symbol:     symbol,
			Type:       typ,
			UnitPrice:  tx.Price,
		})
	}
	return activities, nil
}

func (s *Synchronizer) feeActivities() ([]ghostsync.Activity, error) {
	if s.accountType == Pension {
		return nil, nil
	}

	log.Printf("retrieving fees for account number %q", s.client.accountNumber)
	txs, err := s.client.CashTransactions()
	if err != nil {
		return nil, err
	}

	var activities []ghostsync.Activity
	for _, tx := range txs {
		if !slices.Contains(feeOperations, tx.OperationType) {
			continue
		}

		symbol := managementFeeSymbol
		if strings.Contains(tx.OperationType, "CUSTODIA") {
			symbol = custodyFeeSymbol
		}
		date, err := parseDay(tx.Date)
		if err != nil {
			return nil, ghostsync.Dataf("cash transaction %q date %q: %v", tx.Reference, tx.Date, err)
		}

		activities = append(activities, ghostsync.Activity{
			AccountID:  s.accountID,
			Comment:    ghostsync.Comment(tx.Reference),
			Currency:   tx.Currency,
			DataSource: ghostsync.SourceManual,
			Date:       date,
			Fee:        tx.Amount.Abs(),
			Quantity:   decimal.Zero,
			Symbol:     symbol,
			Type:       ghostsync.FeeCharge,
			UnitPrice:  decimal.Zero,
		})
	}
	return activities, nil
}

// CashBalance implements ghostsync.BalanceSyncer. Pension plans hold no
// cash.
func (s *Synchronizer) CashBalance() (*decimal.Decimal, error) {
	if s.accountType == Pension {
		return nil, nil
	}

	log.Printf("retrieving cash balance for account number %q", s.client.accountNumber)
	portfolio, err := s.client.Portfolio()
	if err != nil {
		return nil, err
	}
	balance := portfolio.Portfolio.CashAmount
	return &balance, nil
}

// PostSync implements ghostsync.PostSyncer: pension fund NAV snapshots are
// pushed as manual market data so Ghostfolio can price the positions.
func (s *Synchronizer) PostSync() error {
	if s.accountType != Pension {
		return nil
	}

	portfolio, err := s.client.Portfolio()
	if err != nil {
		return err
	}
	for _, account := range portfolio.InstrumentAccounts {
		for _, position := range account.Positions {
			symbol, err := pensionFundSymbol(position.Instrument.Name)
			if err != nil {
				return err
			}
			point := ghostfolio.MarketDataPoint{
				Date:        position.Date,
				MarketPrice: position.Price.InexactFloat64(),
			}
			if err := s.gf.PostMarketData(ghostsync.SourceManual, symbol, []ghostfolio.MarketDataPoint{point}); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseDay(s string) (time.Time, error) { return time.Parse("2006-01-02", s) }

func pensionFundSymbol(name string) (string, error) {
	symbol, ok := pensionFunds[name]
	if !ok {
		return "", ghostsync.Configf("unmapped pension fund %q", name)
	}
	return symbol, nil
}
