package notifications

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarn    Severity = "warn"
	SeverityInfo    Severity = "info"
)

var (
	ErrUnknownSeverity = errors.New("unknown notification type")
	ErrClosed          = errors.New("notifier is closed")
	ErrInvalidDuration = errors.New("invalid notification duration")
)

const (
	// DefaultDuration is how long a message stays visible when no duration is given.
	DefaultDuration = 1000 * time.Millisecond
	MaxDuration     = 24 * time.Hour
)

// DurationFromMillis converts a wire duration. Zero or less selects the default.
func DurationFromMillis(ms int64) (time.Duration, error) {
	if ms > MaxDuration.Milliseconds() {
		return 0, fmt.Errorf("%w: %dms exceeds %v", ErrInvalidDuration, ms, MaxDuration)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseSeverity maps a wire value to a Severity. Empty means success.
func ParseSeverity(value string) (Severity, error) {
	switch s := Severity(value); s {
	case "":
		return SeveritySuccess, nil
	case SeveritySuccess, SeverityError, SeverityWarn, SeverityInfo:
		return s, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownSeverity, value)
	}
}

// Notification is a snapshot of what the front-end should display.
type Notification struct {
	Message  string     `json:"message"`
	Type     Severity   `json:"type"`
	Visible  bool       `json:"isVisible"`
	HideAt   *time.Time `json:"hideAt,omitempty"`
	Sequence uint64     `json:"sequence"`
}

// Notifier holds the single transient notification of a host application.
// Showing a message cancels the hide task of the previous one.
type Notifier struct {
	logger          *logrus.Logger
	defaultDuration time.Duration

	mutex   sync.Mutex
	current Notification
	timer   *time.Timer
	seq     uint64
	closed  bool
}

func NewNotifier(logger *logrus.Logger, defaultDuration time.Duration) *Notifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	if defaultDuration > MaxDuration {
		defaultDuration = MaxDuration
	}
	return &Notifier{
		logger:          logger,
		defaultDuration: defaultDuration,
		current:         Notification{Type: SeveritySuccess},
	}
}

// Show makes message visible now and schedules it to hide after duration.
func (n *Notifier) Show(message string, severity Severity, duration time.Duration) error {
	severity, err := ParseSeverity(string(severity))
	if err != nil {
		return err
	}
	if duration <= 0 {
		duration = n.defaultDuration
	}
	if duration > MaxDuration {
		return fmt.Errorf("%w: %v exceeds %v", ErrInvalidDuration, duration, MaxDuration)
	}

	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.closed {
		return ErrClosed
	}

	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	hideAt := time.Now().Add(duration)
	n.current = Notification{
		Message:  message,
		Type:     severity,
		Visible:  true,
		HideAt:   &hideAt,
		Sequence: seq,
	}
	n.timer = time.AfterFunc(duration, func() { n.hide(seq) })

	n.logger.WithFields(logrus.Fields{
		"type":     severity,
		"duration": duration.String(),
		"sequence": seq,
	}).Debug(message)
	return nil
}

// hide resets the state unless a newer message has replaced the one that scheduled it.
func (n *Notifier) hide(seq uint64) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if seq != n.seq {
		return
	}
	n.current = Notification{Type: SeveritySuccess, Sequence: seq}
	n.timer = nil
}

// Current returns the notification as it should be displayed right now.
func (n *Notifier) Current() Notification {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.current
}

// Close cancels any pending hide task. Later calls to Show fail.
func (n *Notifier) Close() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.closed = true
}
