package utils_test

import (
	"testing"
	"time"

	"github.com/ryanuo/aug-calc/src/utils"
)

func TestCache(t *testing.T) {
	t.Run("should return the cached string value if valid", func(t *testing.T) {
		cache := utils.NewCache[string]()
		cache.Set("test value", 1*time.Minute)

		value, found := cache.Get(time.Now())
		if !found || value != "test value" {
			t.Error("expected 'test value', got", value)
		}
	})

	t.Run("should return a zero value if the cache is expired", func(t *testing.T) {
		cache := utils.NewCache[string]()
		cache.Set("test value", 20*time.Millisecond)
		time.Sleep(50 * time.Millisecond)

		value, found := cache.Get(time.Now())
		if found {
			t.Error("expected cache miss, got", value)
		}
	})

	t.Run("should return a zero value if the cache is older than refreshAfter", func(t *testing.T) {
		cache := utils.NewCache[string]()
		cache.Set("test value", 1*time.Minute)

		refreshAfter := time.Now().Add(-5 * time.Minute)
		value, found := cache.Get(refreshAfter)
		if found {
			t.Error("expected cache miss due to refreshAfter, got", value)
		}
	})

	t.Run("should miss after Clear", func(t *testing.T) {
		cache := utils.NewCache[*float64]()
		price := 612.5
		cache.Set(&price, 1*time.Minute)
		cache.Clear()

		value, found := cache.Get(time.Now())
		if found || value != nil {
			t.Errorf("expected cleared cache, got %v", value)
		}
	})
}
