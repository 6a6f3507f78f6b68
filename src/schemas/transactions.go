package schemas

import (
	"fmt"

	"github.com/ryanuo/aug-calc/src/ledger"
)

// LegRequest carries one leg of a trade. Time is an ISO-8601 timestamp.
type LegRequest struct {
	Weight *float64 `json:"weight"`
	Price  *float64 `json:"price"`
	Time   string   `json:"time"`
}

type CreateTransactionRequest struct {
	LegRequest
}

// CloseTransactionRequest omits FeeRate to use the configured default.
type CloseTransactionRequest struct {
	LegRequest
	FeeRate *float64 `json:"feeRate,omitempty"`
}

// ItemTransaction parses the leg, reporting missing fields as invalid arguments.
func (l LegRequest) ItemTransaction() (ledger.ItemTransaction, error) {
	if l.Weight == nil {
		return ledger.ItemTransaction{}, fmt.Errorf("%w: weight is required", ledger.ErrInvalidArgument)
	}
	if l.Price == nil {
		return ledger.ItemTransaction{}, fmt.Errorf("%w: price is required", ledger.ErrInvalidArgument)
	}
	return ledger.ParseItemTransaction(*l.Weight, *l.Price, l.Time)
}

type TransactionResponse struct {
	ID    string                 `json:"id"`
	State ledger.State           `json:"state"`
	Buy   ledger.ItemTransaction `json:"buy"`
	Sell  *ledger.SellLeg        `json:"sell,omitempty"`
}

func NewTransactionResponse(tx ledger.Transaction) TransactionResponse {
	record := tx.Record()
	return TransactionResponse{
		ID:    record.ID,
		State: tx.State(),
		Buy:   record.Buy,
		Sell:  record.Sell,
	}
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

func NewTransactionListResponse(txs []ledger.Transaction) TransactionListResponse {
	res := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for _, tx := range txs {
		res.Transactions = append(res.Transactions, NewTransactionResponse(tx))
	}
	res.Count = len(res.Transactions)
	return res
}
