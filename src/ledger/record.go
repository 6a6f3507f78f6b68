package ledger

import (
	"fmt"
	"strings"

	"github.com/ryanuo/aug-calc/src/utils"
)

// Record is the serialized shape of a Transaction: a sell leg is present
// exactly when the position is closed.
type Record struct {
	ID   string          `json:"id"`
	Buy  ItemTransaction `json:"buy"`
	Sell *SellLeg        `json:"sell,omitempty"`
}

// Transaction rebuilds the typed variant, re-checking every invariant.
func (r Record) Transaction() (Transaction, error) {
	if strings.TrimSpace(r.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}
	if err := r.Buy.Validate(); err != nil {
		return nil, fmt.Errorf("transaction %s buy leg: %w", r.ID, err)
	}
	if r.Sell == nil {
		return OpenTransaction{ID: r.ID, Buy: r.Buy}, nil
	}

	sell := *r.Sell
	if err := sell.ItemTransaction.Validate(); err != nil {
		return nil, fmt.Errorf("transaction %s sell leg: %w", r.ID, err)
	}
	if sell.Time.Before(r.Buy.Time) {
		return nil, fmt.Errorf("%w: transaction %s sells before it buys", ErrInvalidArgument, r.ID)
	}
	if sell.Fee < 0 || sell.Fee > sell.TotalPrice {
		return nil, fmt.Errorf("%w: transaction %s fee %v is outside [0, %v]", ErrInvalidArgument, r.ID, sell.Fee, sell.TotalPrice)
	}
	if want := utils.Round(sell.TotalPrice - sell.Fee - r.Buy.TotalPrice); sell.Profit != want {
		return nil, fmt.Errorf("%w: transaction %s profit %v, expected %v", ErrInvalidArgument, r.ID, sell.Profit, want)
	}
	return ClosedTransaction{ID: r.ID, Buy: r.Buy, Sell: sell}, nil
}
