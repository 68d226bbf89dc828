package api

import (
	"context"
	"fmt"

	"github.com/careerconnect/client/internal/model"
)

// Notifications fetches the caller's notification list, newest first.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var wire []wireNotification
	if err := c.Get(ctx, "/api/notifications", &wire); err != nil {
		return nil, err
	}
	notifications := make([]model.Notification, len(wire))
	for i, w := range wire {
		notifications[i] = w.toNotification()
	}
	return notifications, nil
}

// unreadCountBody is the unread-count response envelope.
type unreadCountBody struct {
	Count int `json:"count"`
}

// UnreadCount fetches only the number of unread notifications. This is the
// cheap call the background poller repeats.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var body unreadCountBody
	if err := c.Get(ctx, "/api/notifications/unread-count", &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/notifications/%s/read", id)
	return c.Put(ctx, path, nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Put(ctx, "/api/notifications/mark-all-read", nil, nil)
}
