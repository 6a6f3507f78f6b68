package ledger_test

import (
	"math"
	"testing"

	"github.com/ryanuo/aug-calc/src/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	first := mustOpen(t, 1, 100, day1)
	closed, err := ledger.CloseTransaction(first, mustLeg(t, 1, 150, day2), 0.01)
	require.NoError(t, err)
	second := mustOpen(t, 2, 50, day1)
	third := mustOpen(t, 0.5, 80, day2)

	txs := []ledger.Transaction{closed, second, third}

	s, err := ledger.Summarize(txs, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.OpenCount)
	assert.Equal(t, 1, s.ClosedCount)
	assert.Equal(t, 2.5, s.OpenWeight)
	assert.Equal(t, 140.0, s.OpenCost)
	assert.Equal(t, 48.5, s.RealizedProfit)
	assert.Equal(t, 1.5, s.FeesPaid)
	assert.Zero(t, s.MarketValue)
	assert.Zero(t, s.UnrealizedProfit)

	marked, err := ledger.Summarize(txs, 60)
	require.NoError(t, err)
	assert.Equal(t, 150.0, marked.MarketValue)
	assert.Equal(t, 10.0, marked.UnrealizedProfit)

	empty, err := ledger.Summarize(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.Summary{}, empty)
}

func TestSummarizeRejectsBadMarkPrice(t *testing.T) {
	txs := []ledger.Transaction{mustOpen(t, 2, 50, day1)}

	for name, mark := range map[string]float64{
		"negative": -5,
		"NaN":      math.NaN(),
		"+Inf":     math.Inf(1),
		"-Inf":     math.Inf(-1),
	} {
		_, err := ledger.Summarize(txs, mark)
		assert.ErrorIs(t, err, ledger.ErrInvalidArgument, name)
	}

	huge := []ledger.Transaction{mustOpen(t, 1e200, 1, day1)}
	_, err := ledger.Summarize(huge, 1e200)
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}
