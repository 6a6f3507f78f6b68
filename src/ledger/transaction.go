package ledger

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/ryanuo/aug-calc/src/utils"
)

// State is the lifecycle position of a Transaction.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Transaction is either an OpenTransaction or a ClosedTransaction.
type Transaction interface {
	TransactionID() string
	BuyLeg() ItemTransaction
	State() State
	Record() Record

	sealed()
}

// SellLeg is the closing leg together with the amounts derived when closing.
type SellLeg struct {
	ItemTransaction
	Profit float64 `json:"profit"`
	Fee    float64 `json:"fee"`
}

// OpenTransaction holds a buy leg that has not been sold yet.
type OpenTransaction struct {
	ID  string
	Buy ItemTransaction
}

// ClosedTransaction is terminal: no operation removes its sell leg.
type ClosedTransaction struct {
	ID   string
	Buy  ItemTransaction
	Sell SellLeg
}

func (t OpenTransaction) TransactionID() string   { return t.ID }
func (t OpenTransaction) BuyLeg() ItemTransaction { return t.Buy }
func (t OpenTransaction) State() State            { return StateOpen }
func (t OpenTransaction) Record() Record          { return Record{ID: t.ID, Buy: t.Buy} }
func (OpenTransaction) sealed()                   {}

func (t ClosedTransaction) TransactionID() string   { return t.ID }
func (t ClosedTransaction) BuyLeg() ItemTransaction { return t.Buy }
func (t ClosedTransaction) State() State            { return StateClosed }
func (t ClosedTransaction) Record() Record {
	sell := t.Sell
	return Record{ID: t.ID, Buy: t.Buy, Sell: &sell}
}
func (ClosedTransaction) sealed() {}

// OpenPosition starts a new transaction from a buy leg and assigns its id.
func OpenPosition(buy ItemTransaction) (OpenTransaction, error) {
	if err := buy.Validate(); err != nil {
		return OpenTransaction{}, fmt.Errorf("buy leg: %w", err)
	}
	return OpenTransaction{ID: uuid.NewString(), Buy: buy}, nil
}

// CloseTransaction attaches sell to tx and derives fee and profit.
// A zero feeRate closes without a fee.
func CloseTransaction(tx Transaction, sell ItemTransaction, feeRate float64) (ClosedTransaction, error) {
	open, ok := tx.(OpenTransaction)
	if !ok {
		return ClosedTransaction{}, fmt.Errorf("%w: transaction %s is already closed", ErrInvalidState, tx.TransactionID())
	}
	if err := sell.Validate(); err != nil {
		return ClosedTransaction{}, fmt.Errorf("sell leg: %w", err)
	}
	if sell.Time.Before(open.Buy.Time) {
		return ClosedTransaction{}, fmt.Errorf("%w: sell time %s precedes buy time %s",
			ErrInvalidArgument, sell.Time.Format(utils.TimestampLayout), open.Buy.Time.Format(utils.TimestampLayout))
	}
	if math.IsNaN(feeRate) || feeRate < 0 || feeRate > 1 {
		return ClosedTransaction{}, fmt.Errorf("%w: fee rate must be within [0, 1], got %v", ErrInvalidArgument, feeRate)
	}

	gross := sell.TotalPrice
	fee := utils.Round(gross * feeRate)
	profit := utils.Round(gross - fee - open.Buy.TotalPrice)

	return ClosedTransaction{
		ID:   open.ID,
		Buy:  open.Buy,
		Sell: SellLeg{ItemTransaction: sell, Profit: profit, Fee: fee},
	}, nil
}
