package controllers

import (
	"context"

	"github.com/ryanuo/aug-calc/src/clients/gold"
)

func (c *Controller) GetGoldTrade(ctx context.Context, refresh bool) (*gold.TradeInfo, error) {
	return c.Quotes.GetGoldTrade(ctx, refresh)
}
