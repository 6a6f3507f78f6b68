package ledger

import (
	"fmt"
	"math"

	"github.com/ryanuo/aug-calc/src/utils"
)

// Summary aggregates a set of transactions.
type Summary struct {
	OpenCount        int     `json:"openCount"`
	ClosedCount      int     `json:"closedCount"`
	OpenWeight       float64 `json:"openWeight"`
	OpenCost         float64 `json:"openCost"`
	RealizedProfit   float64 `json:"realizedProfit"`
	FeesPaid         float64 `json:"feesPaid"`
	MarkPrice        float64 `json:"markPrice,omitempty"`
	MarketValue      float64 `json:"marketValue,omitempty"`
	UnrealizedProfit float64 `json:"unrealizedProfit,omitempty"`
}

// Summarize folds txs into a Summary. Open positions are valued at
// markPrice when it is positive; zero means no mark.
func Summarize(txs []Transaction, markPrice float64) (Summary, error) {
	if math.IsNaN(markPrice) || math.IsInf(markPrice, 0) || markPrice < 0 {
		return Summary{}, fmt.Errorf("%w: markPrice must be a finite number >= 0, got %v", ErrInvalidArgument, markPrice)
	}

	var s Summary
	for _, tx := range txs {
		switch t := tx.(type) {
		case OpenTransaction:
			s.OpenCount++
			s.OpenWeight += t.Buy.Weight
			s.OpenCost += t.Buy.TotalPrice
		case ClosedTransaction:
			s.ClosedCount++
			s.RealizedProfit += t.Sell.Profit
			s.FeesPaid += t.Sell.Fee
		}
	}

	s.OpenWeight = utils.Round(s.OpenWeight)
	s.OpenCost = utils.Round(s.OpenCost)
	s.RealizedProfit = utils.Round(s.RealizedProfit)
	s.FeesPaid = utils.Round(s.FeesPaid)
	if markPrice > 0 {
		s.MarkPrice = markPrice
		s.MarketValue = utils.Round(s.OpenWeight * markPrice)
		s.UnrealizedProfit = utils.Round(s.MarketValue - s.OpenCost)
	}
	for _, v := range []float64{s.OpenWeight, s.OpenCost, s.RealizedProfit, s.FeesPaid, s.MarketValue, s.UnrealizedProfit} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Summary{}, fmt.Errorf("%w: summary overflows float64", ErrInvalidArgument)
		}
	}
	return s, nil
}
