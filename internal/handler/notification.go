package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// NotificationService is the inbox API used by NotificationHandler
type NotificationService interface {
	List(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*model.Notification, error)
}

// NotificationStreams opens and closes per-user event streams
type NotificationStreams interface {
	SubscribeUser(userID, subscriberID string) *service.Subscriber
	UnsubscribeUser(userID, subscriberID string)
}

// NotificationHandler handles the caller's notifications
type NotificationHandler struct {
	notifications NotificationService
	streams       NotificationStreams
}

// NewNotificationHandler creates a new notification handler. streams may be
// nil, in which case Stream answers 404.
func NewNotificationHandler(notifications NotificationService, streams NotificationStreams) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, streams: streams}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "list notifications")
		return
	}

	list, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		fail(w, r, routes, err, "list notifications")
		return
	}
	routes.Success(w, OK(list))
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "mark notification read")
		return
	}

	n, err := h.notifications.MarkRead(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		fail(w, r, routes, err, "mark notification read")
		return
	}
	routes.Success(w, OK(n))
}

// Stream handles GET /api/notifications/stream as server-sent events
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "stream notifications")
		return
	}
	if h.streams == nil {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		fail(w, r, routes, errors.New("streaming not supported"), "stream notifications")
		return
	}

	// streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()
	sub := h.streams.SubscribeUser(userID, subscriberID)
	defer h.streams.UnsubscribeUser(userID, subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriberId\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()
		case <-sub.Done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
