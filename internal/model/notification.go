package model

import "time"

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationComment           NotificationType = "COMMENT"
	NotificationReply             NotificationType = "REPLY"
	NotificationCollaboratorAdded NotificationType = "COLLABORATOR_ADDED"
	NotificationSystem            NotificationType = "SYSTEM"
)

// Notification is a message addressed to one user
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
