// Package notify reconciles two independently fetched facts: the
// notification list and the unread count. Mutations adjust the local count
// without a second round trip; the background poller refreshes only the
// count to bound request volume.
package notify

import (
	"context"
	"sync"

	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/store"
)

// Backend is the slice of the REST API the notification center consumes.
type Backend interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Center owns the notification list and the unread count.
type Center struct {
	backend Backend
	cache   store.Store

	mu            sync.Mutex
	notifications []model.Notification
	unread        int
}

// NewCenter creates a notification center. The cache may be nil.
func NewCenter(backend Backend, cache store.Store) *Center {
	if backend == nil {
		panic("notify: backend must not be nil")
	}
	return &Center{backend: backend, cache: cache}
}

// Load fetches the full notification list and the unread count.
func (c *Center) Load(ctx context.Context) error {
	notifications, err := c.backend.Notifications(ctx)
	if err != nil {
		return err
	}
	count, err := c.backend.UnreadCount(ctx)
	if err != nil {
		// The list still loaded; fall back to counting it locally.
		count = countUnread(notifications)
	}

	c.mu.Lock()
	c.notifications = notifications
	c.unread = count
	c.mu.Unlock()

	if c.cache != nil {
		_ = c.cache.ReplaceNotifications(ctx, notifications)
	}
	return nil
}

// Hydrate restores the cached notification list at startup.
func (c *Center) Hydrate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	cached, err := c.cache.GetNotifications(ctx)
	if err != nil || len(cached) == 0 {
		return
	}

	c.mu.Lock()
	c.notifications = cached
	c.unread = countUnread(cached)
	c.mu.Unlock()
}

// Notifications returns a copy of the current list, newest first.
func (c *Center) Notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// Unread returns the current unread count.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// SetUnread installs a freshly polled unread count.
func (c *Center) SetUnread(count int) {
	if count < 0 {
		count = 0
	}
	c.mu.Lock()
	c.unread = count
	c.mu.Unlock()
}

// MarkRead marks one notification read on the server, then updates the
// local list and decrements the unread count by at most one, floored at
// zero. No re-fetch.
func (c *Center) MarkRead(ctx context.Context, id string) error {
	if err := c.backend.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.notifications {
		if c.notifications[i].ID == id {
			if !c.notifications[i].Read && c.unread > 0 {
				c.unread--
			}
			c.notifications[i].Read = true
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// MarkAllRead marks every notification read on the server and zeroes the
// local unread count.
func (c *Center) MarkAllRead(ctx context.Context) error {
	if err := c.backend.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.notifications {
		c.notifications[i].Read = true
	}
	c.unread = 0
	c.mu.Unlock()
	return nil
}

// Reset drops all local notification state. Called on sign-out.
func (c *Center) Reset() {
	c.mu.Lock()
	c.notifications = nil
	c.unread = 0
	c.mu.Unlock()
}

func countUnread(notifications []model.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
