package models

import (
	"time"
)

// Transaction is one gold trade row. The sell columns are null while the
// position is open and are all set together when it is closed.
type Transaction struct {
	ID             string     `db:"id" gorm:"primaryKey;size:36"`
	BuyWeight      float64    `db:"buy_weight" gorm:"not null"`
	BuyPrice       float64    `db:"buy_price" gorm:"not null"`
	BuyTotalPrice  float64    `db:"buy_total_price" gorm:"not null"`
	BuyTime        time.Time  `db:"buy_time" gorm:"not null;index"`
	SellWeight     *float64   `db:"sell_weight"`
	SellPrice      *float64   `db:"sell_price"`
	SellTotalPrice *float64   `db:"sell_total_price"`
	SellTime       *time.Time `db:"sell_time"`
	Profit         *float64   `db:"profit"`
	Fee            *float64   `db:"fee"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (Transaction) TableName() string {
	return "gold_transactions"
}

// IsClosed reports whether the row carries a sell leg.
func (t *Transaction) IsClosed() bool {
	return t.SellTime != nil
}
