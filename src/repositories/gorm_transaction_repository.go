package repositories

import (
	"context"
	"errors"
	"math"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/models"

	"gorm.io/gorm"
)

type gormTransactionRepo struct {
	db *gorm.DB
}

// NewGormTransactionRepository stores transactions through gorm (sqlite or
// mysql). The table is created with AutoMigrate.
func NewGormTransactionRepository(db *gorm.DB) (TransactionRepository, error) {
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		return nil, err
	}
	return &gormTransactionRepo{db: db}, nil
}

func (r *gormTransactionRepo) Create(ctx context.Context, tx ledger.OpenTransaction) error {
	row := toModel(tx.Record())
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *gormTransactionRepo) GetByID(ctx context.Context, id string) (ledger.Transaction, error) {
	var row models.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromModel(row)
}

func (r *gormTransactionRepo) List(ctx context.Context, filter ListFilter) ([]ledger.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	switch filter.State {
	case ledger.StateOpen:
		query = query.Where("sell_time IS NULL")
	case ledger.StateClosed:
		query = query.Where("sell_time IS NOT NULL")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		// mysql rejects OFFSET without LIMIT
		if filter.Limit == 0 {
			query = query.Limit(math.MaxInt32)
		}
		query = query.Offset(filter.Offset)
	}

	var rows []models.Transaction
	if err := query.Order("buy_time").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromModels(rows)
}

func (r *gormTransactionRepo) SaveSell(ctx context.Context, closed ledger.ClosedTransaction) error {
	var row models.Transaction
	applySell(&row, closed.Sell)

	return r.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		result := dbTx.Model(&models.Transaction{}).
			Where("id = ? AND sell_time IS NULL", closed.ID).
			Updates(map[string]interface{}{
				"sell_weight":      row.SellWeight,
				"sell_price":       row.SellPrice,
				"sell_total_price": row.SellTotalPrice,
				"sell_time":        row.SellTime,
				"profit":           row.Profit,
				"fee":              row.Fee,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		var count int64
		if err := dbTx.Model(&models.Transaction{}).Where("id = ?", closed.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyClosed
	})
}

func (r *gormTransactionRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
