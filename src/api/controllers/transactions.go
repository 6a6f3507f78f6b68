package controllers

import (
	"context"
	"fmt"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/notifications"
	"github.com/ryanuo/aug-calc/src/repositories"
	"github.com/ryanuo/aug-calc/src/schemas"
	"github.com/ryanuo/aug-calc/src/utils"

	"github.com/sirupsen/logrus"
)

func (c *Controller) CreateTransaction(ctx context.Context, req *schemas.CreateTransactionRequest) (ledger.OpenTransaction, error) {
	buy, err := req.ItemTransaction()
	if err != nil {
		return ledger.OpenTransaction{}, err
	}
	open, err := ledger.OpenPosition(buy)
	if err != nil {
		return ledger.OpenTransaction{}, err
	}
	if err := c.Transactions.Create(ctx, open); err != nil {
		c.notify("Could not save the purchase", notifications.SeverityError)
		return ledger.OpenTransaction{}, err
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"id":     open.ID,
		"weight": open.Buy.Weight,
		"price":  open.Buy.Price,
	}).Info("transaction opened")
	return open, nil
}

func (c *Controller) GetTransaction(ctx context.Context, id string) (ledger.Transaction, error) {
	return c.Transactions.GetByID(ctx, id)
}

func (c *Controller) ListTransactions(ctx context.Context, filter repositories.ListFilter) ([]ledger.Transaction, error) {
	return c.Transactions.List(ctx, filter)
}

// CloseTransaction sells the open position id. A missing fee rate falls back
// to the configured default.
func (c *Controller) CloseTransaction(ctx context.Context, id string, req *schemas.CloseTransactionRequest) (ledger.ClosedTransaction, error) {
	sell, err := req.ItemTransaction()
	if err != nil {
		return ledger.ClosedTransaction{}, err
	}
	feeRate := c.DefaultFeeRate
	if req.FeeRate != nil {
		feeRate = *req.FeeRate
	}

	tx, err := c.Transactions.GetByID(ctx, id)
	if err != nil {
		return ledger.ClosedTransaction{}, err
	}
	closed, err := ledger.CloseTransaction(tx, sell, feeRate)
	if err != nil {
		return ledger.ClosedTransaction{}, err
	}
	if err := c.Transactions.SaveSell(ctx, closed); err != nil {
		c.notify("Could not save the sale", notifications.SeverityError)
		return ledger.ClosedTransaction{}, err
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"id":     closed.ID,
		"profit": closed.Sell.Profit,
		"fee":    closed.Sell.Fee,
	}).Info("transaction closed")
	c.notify(fmt.Sprintf("Sold %v g, profit %v", closed.Sell.Weight, closed.Sell.Profit), notifications.SeveritySuccess)
	return closed, nil
}

func (c *Controller) DeleteTransaction(ctx context.Context, id string) error {
	if err := c.Transactions.Delete(ctx, id); err != nil {
		return err
	}
	utils.LoggerFromContext(ctx).WithField("id", id).Info("transaction deleted")
	return nil
}

func (c *Controller) GetSummary(ctx context.Context, markPrice float64) (ledger.Summary, error) {
	txs, err := c.Transactions.List(ctx, repositories.ListFilter{})
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(txs, markPrice)
}
