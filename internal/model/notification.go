package model

import "time"

// Notification is a server-generated alert for the current user.
type Notification struct {
	// ID is the backend identifier of the notification.
	ID string `json:"id"`

	// Title is the short headline.
	Title string `json:"title"`

	// Message is the full notification text.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when the notification was generated.
	CreatedAt time.Time `json:"createdAt"`
}
