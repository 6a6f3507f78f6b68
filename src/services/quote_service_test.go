package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ryanuo/aug-calc/src/clients/gold"
	"github.com/ryanuo/aug-calc/src/services"
	"github.com/ryanuo/aug-calc/src/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoldClient struct {
	mutex sync.Mutex
	calls int
	info  *gold.TradeInfo
	err   error
}

func (f *fakeGoldClient) GetTrade(_ context.Context) (*gold.TradeInfo, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

// memoryCacheHandler stands in for Redis and stores JSON like the real handler.
type memoryCacheHandler struct {
	mutex sync.Mutex
	data  map[string][]byte
}

func newMemoryCacheHandler() *memoryCacheHandler {
	return &memoryCacheHandler{data: map[string][]byte{}}
}

func (m *memoryCacheHandler) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryCacheHandler) Get(_ context.Context, key string, result interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return utils.ErrCacheMiss
	}
	return json.Unmarshal(raw, result)
}

func (m *memoryCacheHandler) Delete(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.data, key)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleTrade(sp float64) *gold.TradeInfo {
	return &gold.TradeInfo{
		SH: []gold.DomesticQuote{{Low: sp - 2, High: sp + 2, SP: sp}},
		GJ: []gold.InternationalQuote{{SP: 2034.5, Low: 2020.1, Symbol: "XAU"}},
	}
}

func TestQuoteService(t *testing.T) {
	ctx := context.Background()

	t.Run("caches locally within the TTL", func(t *testing.T) {
		client := &fakeGoldClient{info: sampleTrade(480)}
		svc := services.NewQuoteService(client, nil, time.Minute, quietLogger())

		first, err := svc.GetGoldTrade(ctx, false)
		require.NoError(t, err)
		second, err := svc.GetGoldTrade(ctx, false)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("refresh bypasses the cache", func(t *testing.T) {
		client := &fakeGoldClient{info: sampleTrade(480)}
		svc := services.NewQuoteService(client, nil, time.Minute, quietLogger())

		_, err := svc.GetGoldTrade(ctx, false)
		require.NoError(t, err)
		_, err = svc.GetGoldTrade(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("zero TTL disables caching", func(t *testing.T) {
		client := &fakeGoldClient{info: sampleTrade(480)}
		svc := services.NewQuoteService(client, nil, 0, quietLogger())

		_, _ = svc.GetGoldTrade(ctx, false)
		_, _ = svc.GetGoldTrade(ctx, false)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("reads what another process stored in the shared cache", func(t *testing.T) {
		shared := newMemoryCacheHandler()
		worker := services.NewQuoteService(&fakeGoldClient{info: sampleTrade(481.5)}, shared, time.Minute, quietLogger())
		_, err := worker.RefreshGoldTrade(ctx)
		require.NoError(t, err)

		apiClient := &fakeGoldClient{err: errors.New("should not be called")}
		api := services.NewQuoteService(apiClient, shared, time.Minute, quietLogger())

		info, err := api.GetGoldTrade(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 481.5, info.SH[0].SP)
		assert.Equal(t, 0, apiClient.calls)
	})

	t.Run("invalidate clears both caches", func(t *testing.T) {
		shared := newMemoryCacheHandler()
		client := &fakeGoldClient{info: sampleTrade(480)}
		svc := services.NewQuoteService(client, shared, time.Minute, quietLogger())

		_, err := svc.GetGoldTrade(ctx, false)
		require.NoError(t, err)
		require.NoError(t, svc.InvalidateGoldTrade(ctx))

		var cached gold.TradeInfo
		assert.ErrorIs(t, shared.Get(ctx, utils.GoldTradeCacheKey, &cached), utils.ErrCacheMiss)

		_, err = svc.GetGoldTrade(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("feed errors propagate without caching", func(t *testing.T) {
		client := &fakeGoldClient{err: errors.New("feed down")}
		svc := services.NewQuoteService(client, newMemoryCacheHandler(), time.Minute, quietLogger())

		info, err := svc.GetGoldTrade(ctx, false)
		assert.Nil(t, info)
		assert.EqualError(t, err, "feed down")

		client.err = nil
		client.info = sampleTrade(479)
		info, err = svc.GetGoldTrade(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 479.0, info.SH[0].SP)
	})
}
