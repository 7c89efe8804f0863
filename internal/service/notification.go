package service

import (
	"context"
	"log/slog"

	"github.com/ideahub/api/internal/model"
)

// NotificationRepository defines the interface for notification storage
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*model.Notification, error)
}

// Notifier delivers notifications produced by other services
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification)
}

// NotificationService handles the caller's inbox
type NotificationService struct {
	repo NotificationRepository
	hub  *EventHub
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// WithHub pushes every stored notification to the recipient's open streams
func (s *NotificationService) WithHub(hub *EventHub) *NotificationService {
	s.hub = hub
	return s
}

// List returns every notification addressed to userID, newest first
func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead marks one of userID's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*model.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// Notify stores n. Failures are logged and never reach the operation
// that produced the notification.
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) {
	if n == nil || n.UserID == "" {
		return
	}
	if err := s.repo.Create(ctx, n); err != nil {
		slog.Error("create notification",
			"user_id", n.UserID,
			"type", string(n.Type),
			"error", err,
		)
		return
	}
	if s.hub != nil {
		s.hub.SendToUser(n.UserID, &Event{Type: EventNotification, Data: n})
	}
}
