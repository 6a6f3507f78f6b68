package controllers

import (
	"context"
	"sync"

	"github.com/ryanuo/aug-calc/src/clients/gold"
	"github.com/ryanuo/aug-calc/src/scheduler"
	"github.com/ryanuo/aug-calc/src/services"

	"github.com/sirupsen/logrus"
)

type Controller struct {
	Quotes services.QuoteServiceI
	Logger *logrus.Logger

	mutex sync.Mutex
	task  *scheduler.ScheduledTask
}

func NewController(quotes services.QuoteServiceI, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{Quotes: quotes, Logger: logger}
}

// RefreshGoldTrade pulls the feed into the shared cache.
func (c *Controller) RefreshGoldTrade(ctx context.Context) (*gold.TradeInfo, error) {
	info, err := c.Quotes.RefreshGoldTrade(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.WithFields(logrus.Fields{
		"domestic":      len(info.SH),
		"international": len(info.GJ),
	}).Debug("gold trade refreshed")
	return info, nil
}

// InvalidateGoldTrade forces the next read to go to the feed.
func (c *Controller) InvalidateGoldTrade(ctx context.Context) error {
	if err := c.Quotes.InvalidateGoldTrade(ctx); err != nil {
		return err
	}
	c.Logger.Info("gold trade cache invalidated")
	return nil
}

// ScheduleRefresh replaces any running refresh schedule with cronSpec.
func (c *Controller) ScheduleRefresh(cronSpec string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	task, err := scheduler.NewScheduledTask(cronSpec, func(ctx context.Context) {
		if _, err := c.RefreshGoldTrade(ctx); err != nil {
			c.Logger.WithError(err).Warn("scheduled gold refresh failed")
		}
	}, c.Logger)
	if err != nil {
		return err
	}
	if c.task != nil {
		c.task.Cancel()
	}
	c.task = task
	c.Logger.WithFields(logrus.Fields{
		"cron": cronSpec,
		"next": task.Next(),
	}).Info("gold refresh scheduled")
	return nil
}

func (c *Controller) Stop() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}
