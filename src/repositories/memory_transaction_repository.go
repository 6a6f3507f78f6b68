package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/models"
)

type memoryTransactionRepo struct {
	mutex sync.RWMutex
	rows  map[string]models.Transaction
}

// NewMemoryTransactionRepository keeps transactions in process memory.
func NewMemoryTransactionRepository() TransactionRepository {
	return &memoryTransactionRepo{rows: make(map[string]models.Transaction)}
}

func (r *memoryTransactionRepo) Create(ctx context.Context, tx ledger.OpenTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.rows[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s already exists", ledger.ErrInvalidState, tx.ID)
	}
	row := toModel(tx.Record())
	row.CreatedAt = now()
	row.UpdatedAt = row.CreatedAt
	r.rows[tx.ID] = row
	return nil
}

func (r *memoryTransactionRepo) GetByID(ctx context.Context, id string) (ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mutex.RLock()
	row, ok := r.rows[id]
	r.mutex.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return fromModel(row)
}

func (r *memoryTransactionRepo) List(ctx context.Context, filter ListFilter) ([]ledger.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	rows := make([]models.Transaction, 0, len(r.rows))
	for _, row := range r.rows {
		switch filter.State {
		case ledger.StateOpen:
			if row.IsClosed() {
				continue
			}
		case ledger.StateClosed:
			if !row.IsClosed() {
				continue
			}
		}
		rows = append(rows, row)
	}
	r.mutex.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BuyTime.Equal(rows[j].BuyTime) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].BuyTime.Before(rows[j].BuyTime)
	})

	if filter.Offset >= len(rows) {
		return []ledger.Transaction{}, nil
	}
	rows = rows[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(rows) {
		rows = rows[:filter.Limit]
	}
	return fromModels(rows)
}

func (r *memoryTransactionRepo) SaveSell(ctx context.Context, closed ledger.ClosedTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	row, ok := r.rows[closed.ID]
	if !ok {
		return ErrNotFound
	}
	if row.IsClosed() {
		return ErrAlreadyClosed
	}
	applySell(&row, closed.Sell)
	row.UpdatedAt = now()
	r.rows[closed.ID] = row
	return nil
}

func (r *memoryTransactionRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
