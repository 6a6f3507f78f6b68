package utils_test

import (
	"math"
	"testing"

	"github.com/ryanuo/aug-calc/src/utils"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	t.Run("zero and NaN normalize to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, utils.Round(0))
		assert.Equal(t, 0.0, utils.Round(math.NaN()))
		assert.False(t, math.Signbit(utils.Round(math.Copysign(0, -1))))
	})

	t.Run("tiny negatives do not leak negative zero", func(t *testing.T) {
		got := utils.Round(-0.00001)
		assert.Equal(t, 0.0, got)
		assert.False(t, math.Signbit(got))
	})

	t.Run("rounds to four digits by default", func(t *testing.T) {
		assert.Equal(t, 1.2346, utils.Round(1.23456))
		assert.Equal(t, 1.5, utils.Round(150*0.01))
		assert.Equal(t, 0.3, utils.Round(0.1+0.2))
	})

	t.Run("half away from zero", func(t *testing.T) {
		assert.Equal(t, 2.5, utils.RoundTo(2.45, 1))
		assert.Equal(t, -2.5, utils.RoundTo(-2.45, 1))
		assert.Equal(t, 3.0, utils.RoundTo(2.5, 0))
		assert.Equal(t, -3.0, utils.RoundTo(-2.5, 0))
	})

	t.Run("custom precision", func(t *testing.T) {
		assert.Equal(t, 123.46, utils.RoundTo(123.456, 2))
		assert.Equal(t, 120.0, utils.RoundTo(123.456, -1))
	})

	t.Run("infinities pass through", func(t *testing.T) {
		assert.True(t, math.IsInf(utils.Round(math.Inf(1)), 1))
		assert.True(t, math.IsInf(utils.Round(math.Inf(-1)), -1))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, x := range []float64{1.23456789, -98.76545, 1e-5, 123456.78905, 0.1 + 0.2, 1e12 / 3, -7.00005} {
			once := utils.Round(x)
			assert.Equal(t, once, utils.Round(once), "x=%v", x)
		}
	})
}
