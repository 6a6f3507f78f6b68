package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `id, buy_weight, buy_price, buy_total_price, buy_time,
	sell_weight, sell_price, sell_total_price, sell_time, profit, fee, created_at, updated_at`

type transactionRepo struct {
	db *pgxpool.Pool
}

// NewTransactionRepository stores transactions in Postgres. The schema comes
// from the goose migrations.
func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, tx ledger.OpenTransaction) error {
	row := toModel(tx.Record())
	_, err := r.db.Exec(ctx,
		`INSERT INTO gold_transactions (id, buy_weight, buy_price, buy_total_price, buy_time)
		VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.BuyWeight, row.BuyPrice, row.BuyTotalPrice, row.BuyTime,
	)
	return err
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (ledger.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM gold_transactions WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromModel(row)
}

func (r *transactionRepo) List(ctx context.Context, filter ListFilter) ([]ledger.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT ` + selectColumns + ` FROM gold_transactions`)
	switch filter.State {
	case ledger.StateOpen:
		query.WriteString(` WHERE sell_time IS NULL`)
	case ledger.StateClosed:
		query.WriteString(` WHERE sell_time IS NOT NULL`)
	}
	query.WriteString(` ORDER BY buy_time, id`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, ` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, ` OFFSET $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	transactions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, err
	}
	return fromModels(transactions)
}

func (r *transactionRepo) SaveSell(ctx context.Context, closed ledger.ClosedTransaction) error {
	var row models.Transaction
	applySell(&row, closed.Sell)

	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = dbTx.Rollback(ctx)
	}()

	tag, err := dbTx.Exec(ctx,
		`UPDATE gold_transactions
		SET sell_weight = $2, sell_price = $3, sell_total_price = $4, sell_time = $5,
			profit = $6, fee = $7, updated_at = now()
		WHERE id = $1 AND sell_time IS NULL`,
		closed.ID, row.SellWeight, row.SellPrice, row.SellTotalPrice, row.SellTime, row.Profit, row.Fee,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := dbTx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM gold_transactions WHERE id = $1)`, closed.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyClosed
	}
	return dbTx.Commit(ctx)
}

func (r *transactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gold_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
