package store

import (
	"context"
	"fmt"
	"time"

	"github.com/careerconnect/client/internal/model"
)

// notificationRow is the sqlx row mapping for the notifications table.
type notificationRow struct {
	ID        string     `db:"id"`
	Title     string     `db:"title"`
	Message   string     `db:"message"`
	Read      bool       `db:"read"`
	CreatedAt *time.Time `db:"created_at"`
}

func (r notificationRow) toNotification() model.Notification {
	n := model.Notification{
		ID:      r.ID,
		Title:   r.Title,
		Message: r.Message,
		Read:    r.Read,
	}
	if r.CreatedAt != nil {
		n.CreatedAt = *r.CreatedAt
	}
	return n
}

// ReplaceNotifications swaps the cached notification collection.
func (s *SQLiteStore) ReplaceNotifications(
	ctx context.Context,
	notifications []model.Notification,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing cached notifications: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO notifications (id, title, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing notification upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		_, err := stmt.ExecContext(ctx, n.ID, n.Title, n.Message, n.Read, n.CreatedAt)
		if err != nil {
			return fmt.Errorf("caching notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// GetNotifications returns the cached notifications, newest first.
func (s *SQLiteStore) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM notifications ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, r := range rows {
		notifications[i] = r.toNotification()
	}
	return notifications, nil
}

// Clear wipes every cached collection.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	for _, table := range []string{"postings", "applications", "notifications"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s cache: %w", table, err)
		}
	}
	return nil
}
