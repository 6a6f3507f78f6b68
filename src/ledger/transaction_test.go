package ledger_test

import (
	"math"
	"testing"
	"time"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
)

func mustLeg(t *testing.T, weight, price float64, at time.Time) ledger.ItemTransaction {
	t.Helper()
	leg, err := ledger.CreateItemTransaction(weight, price, at)
	require.NoError(t, err)
	return leg
}

func mustOpen(t *testing.T, weight, price float64, at time.Time) ledger.OpenTransaction {
	t.Helper()
	tx, err := ledger.OpenPosition(mustLeg(t, weight, price, at))
	require.NoError(t, err)
	return tx
}

func TestCreateItemTransaction(t *testing.T) {
	t.Run("total price is the rounded product", func(t *testing.T) {
		for _, c := range []struct{ weight, price float64 }{
			{1, 100}, {2, 50}, {0.333, 458.27}, {1.23456, 0}, {10.5, 612.3333},
		} {
			leg := mustLeg(t, c.weight, c.price, day1)
			assert.Equal(t, utils.Round(c.weight*c.price), leg.TotalPrice)
			assert.Equal(t, c.weight, leg.Weight)
			assert.Equal(t, c.price, leg.Price)
			assert.True(t, day1.Equal(leg.Time))
		}
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		cases := []struct {
			name          string
			weight, price float64
			at            time.Time
		}{
			{"zero weight", 0, 10, day1},
			{"negative weight", -1, 10, day1},
			{"NaN weight", math.NaN(), 10, day1},
			{"infinite weight", math.Inf(1), 10, day1},
			{"negative price", 1, -0.01, day1},
			{"NaN price", 1, math.NaN(), day1},
			{"total overflows", 1e200, 1e200, day1},
			{"missing time", 1, 10, time.Time{}},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := ledger.CreateItemTransaction(c.weight, c.price, c.at)
				assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
			})
		}
	})

	t.Run("parses ISO-8601 time", func(t *testing.T) {
		leg, err := ledger.ParseItemTransaction(2, 50, "2024-01-01T00:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, 100.0, leg.TotalPrice)
		assert.True(t, day1.Equal(leg.Time))

		_, err = ledger.ParseItemTransaction(2, 50, "not a time")
		assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
	})
}

func TestOpenPosition(t *testing.T) {
	a := mustOpen(t, 1, 100, day1)
	b := mustOpen(t, 1, 100, day1)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, ledger.StateOpen, a.State())
	assert.Nil(t, a.Record().Sell)

	_, err := ledger.OpenPosition(ledger.ItemTransaction{Weight: 1, Price: 10, TotalPrice: 11, Time: day1})
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}

func TestCloseTransaction(t *testing.T) {
	t.Run("profit and fee with a fee rate", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day1)
		closed, err := ledger.CloseTransaction(open, mustLeg(t, 1, 150, day2), 0.01)
		require.NoError(t, err)

		assert.Equal(t, 1.5, closed.Sell.Fee)
		assert.Equal(t, 48.5, closed.Sell.Profit)
		assert.Equal(t, 150.0, closed.Sell.TotalPrice)
		assert.Equal(t, ledger.StateClosed, closed.State())
	})

	t.Run("no fee rate means zero fee", func(t *testing.T) {
		open := mustOpen(t, 3, 41.5, day1)
		sell := mustLeg(t, 3, 44.25, day2)
		closed, err := ledger.CloseTransaction(open, sell, 0)
		require.NoError(t, err)

		assert.Equal(t, 0.0, closed.Sell.Fee)
		assert.Equal(t, utils.Round(sell.TotalPrice-open.Buy.TotalPrice), closed.Sell.Profit)
	})

	t.Run("end to end keeps id and buy leg", func(t *testing.T) {
		buy, err := ledger.ParseItemTransaction(2, 50, "2024-01-01T00:00:00Z")
		require.NoError(t, err)
		require.Equal(t, 100.0, buy.TotalPrice)
		open, err := ledger.OpenPosition(buy)
		require.NoError(t, err)

		sell, err := ledger.ParseItemTransaction(2, 60, "2024-01-02T00:00:00Z")
		require.NoError(t, err)
		closed, err := ledger.CloseTransaction(open, sell, 0)
		require.NoError(t, err)

		assert.Equal(t, 20.0, closed.Sell.Profit)
		assert.Equal(t, 0.0, closed.Sell.Fee)
		assert.Equal(t, open.ID, closed.ID)
		assert.Equal(t, open.Buy, closed.Buy)
	})

	t.Run("loss is negative profit", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day1)
		closed, err := ledger.CloseTransaction(open, mustLeg(t, 1, 90, day2), 0.02)
		require.NoError(t, err)
		assert.Equal(t, 1.8, closed.Sell.Fee)
		assert.Equal(t, -11.8, closed.Sell.Profit)
	})

	t.Run("same instant is allowed", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day1)
		_, err := ledger.CloseTransaction(open, mustLeg(t, 1, 100, day1), 0)
		assert.NoError(t, err)
	})

	t.Run("closing twice is an invalid state", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day1)
		closed, err := ledger.CloseTransaction(open, mustLeg(t, 1, 120, day2), 0)
		require.NoError(t, err)

		_, err = ledger.CloseTransaction(closed, mustLeg(t, 1, 130, day2), 0)
		assert.ErrorIs(t, err, ledger.ErrInvalidState)
	})

	t.Run("sell before buy is an invalid argument", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day2)
		_, err := ledger.CloseTransaction(open, mustLeg(t, 1, 120, day1), 0)
		assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
	})

	t.Run("fee rate out of range", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day1)
		for _, rate := range []float64{-0.01, 1.01, math.NaN()} {
			_, err := ledger.CloseTransaction(open, mustLeg(t, 1, 120, day2), rate)
			assert.ErrorIs(t, err, ledger.ErrInvalidArgument, "rate=%v", rate)
		}
	})

	t.Run("inconsistent sell leg is rejected", func(t *testing.T) {
		open := mustOpen(t, 1, 100, day1)
		bad := ledger.ItemTransaction{Weight: 1, Price: 120, TotalPrice: 200, Time: day2}
		_, err := ledger.CloseTransaction(open, bad, 0)
		assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
	})
}
