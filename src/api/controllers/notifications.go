package controllers

import (
	"context"

	"github.com/ryanuo/aug-calc/src/notifications"
	"github.com/ryanuo/aug-calc/src/schemas"
)

func (c *Controller) ShowNotification(_ context.Context, req *schemas.ShowNotificationRequest) (notifications.Notification, error) {
	severity, err := notifications.ParseSeverity(req.Type)
	if err != nil {
		return notifications.Notification{}, err
	}
	duration, err := notifications.DurationFromMillis(req.Duration)
	if err != nil {
		return notifications.Notification{}, err
	}
	if err := c.Notifier.Show(req.Message, severity, duration); err != nil {
		return notifications.Notification{}, err
	}
	return c.Notifier.Current(), nil
}

func (c *Controller) CurrentNotification(_ context.Context) notifications.Notification {
	return c.Notifier.Current()
}
