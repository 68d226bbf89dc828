package store

import (
	"context"

	"github.com/careerconnect/client/internal/model"
)

// Store is the local cache of server data. It exists so a restart or a
// transport failure degrades to stale data instead of an empty screen; the
// server remains the source of truth and every successful fetch overwrites
// the cached collection.
type Store interface {
	// === Postings ===

	ReplacePostings(ctx context.Context, kind model.PostingKind, postings []model.Posting) error
	GetPostings(ctx context.Context, kind model.PostingKind) ([]model.Posting, error)

	// === Applications ===

	ReplaceApplications(ctx context.Context, apps []model.Application) error
	GetApplications(ctx context.Context) ([]model.Application, error)
	DeleteApplication(ctx context.Context, id string) error

	// === Notifications ===

	ReplaceNotifications(ctx context.Context, notifications []model.Notification) error
	GetNotifications(ctx context.Context) ([]model.Notification, error)

	// Clear wipes all cached collections. Called on sign-out so the next
	// account never sees another user's data.
	Clear(ctx context.Context) error

	Close() error
}
