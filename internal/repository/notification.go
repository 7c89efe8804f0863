package repository

import (
	"context"
	"errors"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db database.Database
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		CREATE notification CONTENT {
			user: type::record($user),
			type: $type,
			title: $title,
			message: $message,
			link: $link,
			read: false,
			created_at: time::now()
		}
	`

	vars := map[string]interface{}{
		"user":    recordID("user", n.UserID),
		"type":    string(n.Type),
		"title":   n.Title,
		"message": n.Message,
		"link":    noneIfEmpty(n.Link),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row := firstRow(result)
	if row == nil {
		return errors.New("create notification: no record returned")
	}

	n.ID = extractRecordID(row["id"])
	n.CreatedAt = parseTime(row["created_at"])
	return nil
}

// ListByUser returns every notification addressed to userID, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	query := `SELECT * FROM notification WHERE user = type::record($user) ORDER BY created_at DESC, id ASC`
	vars := map[string]interface{}{"user": recordID("user", userID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := statementRows(result, 0)
	notifications := make([]*model.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, parseNotification(row))
	}
	return notifications, nil
}

// MarkRead marks one of userID's notifications read. Returns nil when the
// notification is absent or addressed to someone else.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*model.Notification, error) {
	query := `UPDATE notification SET read = true WHERE id = type::record($id) AND user = type::record($user) RETURN AFTER`
	vars := map[string]interface{}{
		"id":   recordID("notification", id),
		"user": recordID("user", userID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row := firstRow(result)
	if row == nil {
		return nil, nil
	}
	return parseNotification(row), nil
}

func parseNotification(data map[string]interface{}) *model.Notification {
	return &model.Notification{
		ID:        extractRecordID(data["id"]),
		UserID:    extractRecordID(data["user"]),
		Type:      model.NotificationType(getString(data, "type")),
		Title:     getString(data, "title"),
		Message:   getString(data, "message"),
		Link:      getString(data, "link"),
		Read:      getBool(data, "read"),
		CreatedAt: parseTime(data["created_at"]),
	}
}
