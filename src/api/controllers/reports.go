package controllers

import (
	"context"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/repositories"

	"github.com/xuri/excelize/v2"
)

// GenerateXLSXReport exports every stored transaction with a summary sheet.
func (c *Controller) GenerateXLSXReport(ctx context.Context, markPrice float64) (*excelize.File, error) {
	txs, err := c.Transactions.List(ctx, repositories.ListFilter{})
	if err != nil {
		return nil, err
	}
	summary, err := ledger.Summarize(txs, markPrice)
	if err != nil {
		return nil, err
	}
	return c.Reports.GenerateXLSXReport(ctx, txs, summary)
}

// GeneratePDFReport renders the same data as the XLSX export, plus the chart, as a PDF.
func (c *Controller) GeneratePDFReport(ctx context.Context, markPrice float64) ([]byte, error) {
	txs, err := c.Transactions.List(ctx, repositories.ListFilter{})
	if err != nil {
		return nil, err
	}
	summary, err := ledger.Summarize(txs, markPrice)
	if err != nil {
		return nil, err
	}
	return c.Reports.GeneratePDFReport(ctx, txs, summary)
}

func (c *Controller) GenerateChartHTML(ctx context.Context) ([]byte, error) {
	txs, err := c.Transactions.List(ctx, repositories.ListFilter{})
	if err != nil {
		return nil, err
	}
	return c.Reports.GenerateChartHTML(ctx, txs)
}
