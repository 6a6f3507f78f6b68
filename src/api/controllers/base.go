package controllers

import (
	"context"

	"github.com/ryanuo/aug-calc/src/clients/gold"
	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/notifications"
	"github.com/ryanuo/aug-calc/src/repositories"
	"github.com/ryanuo/aug-calc/src/schemas"
	"github.com/ryanuo/aug-calc/src/services"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type IController interface {
	CreateTransaction(ctx context.Context, req *schemas.CreateTransactionRequest) (ledger.OpenTransaction, error)
	GetTransaction(ctx context.Context, id string) (ledger.Transaction, error)
	ListTransactions(ctx context.Context, filter repositories.ListFilter) ([]ledger.Transaction, error)
	CloseTransaction(ctx context.Context, id string, req *schemas.CloseTransactionRequest) (ledger.ClosedTransaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	GetSummary(ctx context.Context, markPrice float64) (ledger.Summary, error)

	GetGoldTrade(ctx context.Context, refresh bool) (*gold.TradeInfo, error)

	GenerateXLSXReport(ctx context.Context, markPrice float64) (*excelize.File, error)
	GeneratePDFReport(ctx context.Context, markPrice float64) ([]byte, error)
	GenerateChartHTML(ctx context.Context) ([]byte, error)

	ShowNotification(ctx context.Context, req *schemas.ShowNotificationRequest) (notifications.Notification, error)
	CurrentNotification(ctx context.Context) notifications.Notification
}

type Controller struct {
	Transactions   repositories.TransactionRepository
	Quotes         services.QuoteServiceI
	Reports        services.ReportServiceI
	Notifier       *notifications.Notifier
	DefaultFeeRate float64
	Logger         *logrus.Logger
}

func NewController(
	transactions repositories.TransactionRepository,
	quotes services.QuoteServiceI,
	reports services.ReportServiceI,
	notifier *notifications.Notifier,
	defaultFeeRate float64,
	logger *logrus.Logger,
) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		Transactions:   transactions,
		Quotes:         quotes,
		Reports:        reports,
		Notifier:       notifier,
		DefaultFeeRate: defaultFeeRate,
		Logger:         logger,
	}
}

// notify shows a message without letting notifier failures leak into the request.
func (c *Controller) notify(message string, severity notifications.Severity) {
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.Show(message, severity, 0); err != nil {
		c.Logger.WithError(err).Warn("could not show notification")
	}
}
