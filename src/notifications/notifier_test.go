package notifications_test

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/ryanuo/aug-calc/src/notifications"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifier() *notifications.Notifier {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return notifications.NewNotifier(logger, 0)
}

func TestNotifier(t *testing.T) {
	t.Run("starts hidden", func(t *testing.T) {
		n := newNotifier()
		defer n.Close()

		current := n.Current()
		assert.False(t, current.Visible)
		assert.Empty(t, current.Message)
		assert.Equal(t, notifications.SeveritySuccess, current.Type)
	})

	t.Run("visible immediately and hidden after the duration", func(t *testing.T) {
		n := newNotifier()
		defer n.Close()

		require.NoError(t, n.Show("saved", notifications.SeverityInfo, 30*time.Millisecond))
		current := n.Current()
		assert.True(t, current.Visible)
		assert.Equal(t, "saved", current.Message)
		assert.Equal(t, notifications.SeverityInfo, current.Type)

		assert.Eventually(t, func() bool { return !n.Current().Visible }, time.Second, 5*time.Millisecond)
		hidden := n.Current()
		assert.Empty(t, hidden.Message)
		assert.Equal(t, notifications.SeveritySuccess, hidden.Type)
	})

	t.Run("a new message supersedes the previous hide task", func(t *testing.T) {
		n := newNotifier()
		defer n.Close()

		require.NoError(t, n.Show("first", notifications.SeverityWarn, 20*time.Millisecond))
		require.NoError(t, n.Show("second", notifications.SeverityError, 400*time.Millisecond))

		time.Sleep(80 * time.Millisecond)
		current := n.Current()
		assert.True(t, current.Visible)
		assert.Equal(t, "second", current.Message)
		assert.Equal(t, notifications.SeverityError, current.Type)
	})

	t.Run("empty severity defaults to success", func(t *testing.T) {
		n := newNotifier()
		defer n.Close()

		require.NoError(t, n.Show("ok", "", time.Minute))
		assert.Equal(t, notifications.SeveritySuccess, n.Current().Type)
	})

	t.Run("unknown severity is rejected", func(t *testing.T) {
		n := newNotifier()
		defer n.Close()

		assert.ErrorIs(t, n.Show("boom", "fatal", time.Second), notifications.ErrUnknownSeverity)
		assert.False(t, n.Current().Visible)
	})

	t.Run("durations beyond the maximum are rejected", func(t *testing.T) {
		n := newNotifier()
		defer n.Close()

		assert.ErrorIs(t, n.Show("long", notifications.SeverityInfo, notifications.MaxDuration+time.Millisecond), notifications.ErrInvalidDuration)
		assert.False(t, n.Current().Visible)
	})

	t.Run("close cancels the pending hide", func(t *testing.T) {
		n := newNotifier()
		require.NoError(t, n.Show("stay", notifications.SeverityInfo, 20*time.Millisecond))
		n.Close()

		time.Sleep(60 * time.Millisecond)
		assert.True(t, n.Current().Visible)
		assert.ErrorIs(t, n.Show("again", notifications.SeverityInfo, time.Second), notifications.ErrClosed)
	})
}

func TestDurationFromMillis(t *testing.T) {
	d, err := notifications.DurationFromMillis(1500)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = notifications.DurationFromMillis(0)
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = notifications.DurationFromMillis(notifications.MaxDuration.Milliseconds())
	require.NoError(t, err)
	assert.Equal(t, notifications.MaxDuration, d)

	for _, ms := range []int64{notifications.MaxDuration.Milliseconds() + 1, math.MaxInt64} {
		_, err := notifications.DurationFromMillis(ms)
		assert.ErrorIs(t, err, notifications.ErrInvalidDuration, ms)
	}
}
