package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/models"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrAlreadyClosed = errors.New("transaction is already closed")
)

// ListFilter narrows List results. A zero Limit means no limit.
type ListFilter struct {
	State  ledger.State
	Limit  int
	Offset int
}

// TransactionRepository persists gold transactions. Every load goes back
// through ledger.Record so stored rows are re-validated.
type TransactionRepository interface {
	Create(ctx context.Context, tx ledger.OpenTransaction) error
	GetByID(ctx context.Context, id string) (ledger.Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]ledger.Transaction, error)
	// SaveSell stores the sell leg of closed only if the stored row is still open.
	SaveSell(ctx context.Context, closed ledger.ClosedTransaction) error
	Delete(ctx context.Context, id string) error
}

func (f ListFilter) Validate() error {
	if f.State != "" && f.State != ledger.StateOpen && f.State != ledger.StateClosed {
		return fmt.Errorf("%w: unknown state %q", ledger.ErrInvalidArgument, f.State)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must not be negative", ledger.ErrInvalidArgument)
	}
	return nil
}

func toModel(record ledger.Record) models.Transaction {
	row := models.Transaction{
		ID:            record.ID,
		BuyWeight:     record.Buy.Weight,
		BuyPrice:      record.Buy.Price,
		BuyTotalPrice: record.Buy.TotalPrice,
		BuyTime:       record.Buy.Time.UTC(),
	}
	if record.Sell != nil {
		applySell(&row, *record.Sell)
	}
	return row
}

func applySell(row *models.Transaction, sell ledger.SellLeg) {
	weight, price, total := sell.Weight, sell.Price, sell.TotalPrice
	profit, fee := sell.Profit, sell.Fee
	at := sell.Time.UTC()
	row.SellWeight = &weight
	row.SellPrice = &price
	row.SellTotalPrice = &total
	row.SellTime = &at
	row.Profit = &profit
	row.Fee = &fee
}

func fromModel(row models.Transaction) (ledger.Transaction, error) {
	record := ledger.Record{
		ID: row.ID,
		Buy: ledger.ItemTransaction{
			Weight:     row.BuyWeight,
			Price:      row.BuyPrice,
			TotalPrice: row.BuyTotalPrice,
			Time:       row.BuyTime.UTC(),
		},
	}
	if row.IsClosed() {
		if row.SellWeight == nil || row.SellPrice == nil || row.SellTotalPrice == nil || row.Profit == nil || row.Fee == nil {
			return nil, fmt.Errorf("%w: transaction %s has a partial sell leg", ledger.ErrInvalidArgument, row.ID)
		}
		record.Sell = &ledger.SellLeg{
			ItemTransaction: ledger.ItemTransaction{
				Weight:     *row.SellWeight,
				Price:      *row.SellPrice,
				TotalPrice: *row.SellTotalPrice,
				Time:       row.SellTime.UTC(),
			},
			Profit: *row.Profit,
			Fee:    *row.Fee,
		}
	}
	return record.Transaction()
}

func fromModels(rows []models.Transaction) ([]ledger.Transaction, error) {
	txs := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func now() time.Time {
	return time.Now().UTC()
}
