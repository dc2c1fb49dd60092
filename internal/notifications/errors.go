package notifications

import "errors"

// Service errors.
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationNotOwned = errors.New("notification belongs to another user")
	ErrRecipientNotFound    = errors.New("recipient not found")
)
