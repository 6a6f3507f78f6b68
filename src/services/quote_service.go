package services

import (
	"context"
	"errors"
	"time"

	"github.com/ryanuo/aug-calc/src/clients/gold"
	"github.com/ryanuo/aug-calc/src/utils"

	"github.com/sirupsen/logrus"
)

type QuoteServiceI interface {
	GetGoldTrade(ctx context.Context, refresh bool) (*gold.TradeInfo, error)
	RefreshGoldTrade(ctx context.Context) (*gold.TradeInfo, error)
	InvalidateGoldTrade(ctx context.Context) error
}

// QuoteService serves gold prices from a process-local cache, then from the
// shared cache when one is configured, and only then from the feed.
type QuoteService struct {
	client gold.GoldServiceClientI
	local  *utils.Cache[*gold.TradeInfo]
	shared utils.CacheHandlerI
	ttl    time.Duration
	logger *logrus.Logger
}

// NewQuoteService builds the service. shared may be nil.
func NewQuoteService(client gold.GoldServiceClientI, shared utils.CacheHandlerI, ttl time.Duration, logger *logrus.Logger) *QuoteService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QuoteService{
		client: client,
		local:  utils.NewCache[*gold.TradeInfo](),
		shared: shared,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *QuoteService) GetGoldTrade(ctx context.Context, refresh bool) (*gold.TradeInfo, error) {
	if !refresh && s.ttl > 0 {
		if info, ok := s.local.Get(time.Now()); ok {
			return info, nil
		}
		if info, ok := s.fromShared(ctx); ok {
			s.local.Set(info, s.ttl)
			return info, nil
		}
	}
	return s.RefreshGoldTrade(ctx)
}

// RefreshGoldTrade always hits the feed and stores the result in both caches.
func (s *QuoteService) RefreshGoldTrade(ctx context.Context) (*gold.TradeInfo, error) {
	info, err := s.client.GetTrade(ctx)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		s.local.Set(info, s.ttl)
		if s.shared != nil {
			if err := s.shared.Set(ctx, utils.GoldTradeCacheKey, info, s.ttl); err != nil {
				s.logger.WithError(err).Warn("could not store gold trade in shared cache")
			}
		}
	}
	return info, nil
}

// InvalidateGoldTrade drops the cached trade from both caches.
func (s *QuoteService) InvalidateGoldTrade(ctx context.Context) error {
	s.local.Clear()
	if s.shared == nil {
		return nil
	}
	return s.shared.Delete(ctx, utils.GoldTradeCacheKey)
}

func (s *QuoteService) fromShared(ctx context.Context) (*gold.TradeInfo, bool) {
	if s.shared == nil {
		return nil, false
	}
	var info gold.TradeInfo
	if err := s.shared.Get(ctx, utils.GoldTradeCacheKey, &info); err != nil {
		if !errors.Is(err, utils.ErrCacheMiss) {
			s.logger.WithError(err).Warn("shared cache lookup failed")
		}
		return nil, false
	}
	return &info, true
}
