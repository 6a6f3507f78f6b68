package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ryanuo/aug-calc/src/utils"
)

// ItemTransaction is one leg, buy or sell, of a gold trade.
type ItemTransaction struct {
	Weight     float64   `json:"weight"`
	Price      float64   `json:"price"`
	TotalPrice float64   `json:"totalPrice"`
	Time       time.Time `json:"time"`
}

// CreateItemTransaction builds a leg and derives its total price.
func CreateItemTransaction(weight, price float64, at time.Time) (ItemTransaction, error) {
	if err := validateLegInputs(weight, price, at); err != nil {
		return ItemTransaction{}, err
	}
	total, err := legTotal(weight, price)
	if err != nil {
		return ItemTransaction{}, err
	}
	return ItemTransaction{
		Weight:     weight,
		Price:      price,
		TotalPrice: total,
		Time:       at,
	}, nil
}

// ParseItemTransaction is CreateItemTransaction for an ISO-8601 timestamp.
func ParseItemTransaction(weight, price float64, at string) (ItemTransaction, error) {
	parsed, err := utils.ParseTimestamp(strings.TrimSpace(at))
	if err != nil {
		return ItemTransaction{}, fmt.Errorf("%w: time %q is not an ISO-8601 timestamp", ErrInvalidArgument, at)
	}
	return CreateItemTransaction(weight, price, parsed)
}

// Validate checks the leg preconditions and that TotalPrice still matches Price and Weight.
func (it ItemTransaction) Validate() error {
	if err := validateLegInputs(it.Weight, it.Price, it.Time); err != nil {
		return err
	}
	want, err := legTotal(it.Weight, it.Price)
	if err != nil {
		return err
	}
	if it.TotalPrice != want {
		return fmt.Errorf("%w: totalPrice %v does not match weight*price %v", ErrInvalidArgument, it.TotalPrice, want)
	}
	return nil
}

func validateLegInputs(weight, price float64, at time.Time) error {
	switch {
	case math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0:
		return fmt.Errorf("%w: weight must be > 0, got %v", ErrInvalidArgument, weight)
	case math.IsNaN(price) || math.IsInf(price, 0) || price < 0:
		return fmt.Errorf("%w: price must be >= 0, got %v", ErrInvalidArgument, price)
	case at.IsZero():
		return fmt.Errorf("%w: time is required", ErrInvalidArgument)
	}
	return nil
}

// legTotal is weight*price rounded; a product that overflows float64 is rejected.
func legTotal(weight, price float64) (float64, error) {
	total := utils.Round(weight * price)
	if math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: weight*price overflows (weight %v, price %v)", ErrInvalidArgument, weight, price)
	}
	return total, nil
}
