package handler

import (
	"context"
	"net/http"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// CommentService is the comment API used by CommentHandler
type CommentService interface {
	ListTree(ctx context.Context, ideaID, viewerID string) ([]*model.Comment, error)
	Create(ctx context.Context, ideaID, authorID string, req model.CreateCommentRequest) (*model.Comment, error)
	Update(ctx context.Context, id, callerID string, req model.UpdateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, id, callerID string) (int, error)
	Vote(ctx context.Context, id, callerID string, delta int) (*model.Comment, error)
}

// CommentHandler handles idea comment threads
type CommentHandler struct {
	comments CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List handles GET /api/ideas/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	tree, err := h.comments.ListTree(r.Context(), r.PathValue("id"), callerID(r))
	if err != nil {
		fail(w, r, routes, err, "list comments")
		return
	}
	routes.Success(w, OK(tree))
}

// Create handles POST /api/ideas/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID := callerID(r)
	if authorID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "create comment")
		return
	}

	var req model.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "create comment")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "create comment")
		return
	}

	comment, err := h.comments.Create(r.Context(), r.PathValue("id"), authorID, req)
	if err != nil {
		fail(w, r, routes, err, "create comment")
		return
	}

	routes.Success(w, Created(comment))
}

// Update handles PATCH /api/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "update comment")
		return
	}

	var req model.UpdateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "update comment")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "update comment")
		return
	}

	comment, err := h.comments.Update(r.Context(), r.PathValue("id"), userID, req)
	if err != nil {
		fail(w, r, routes, err, "update comment")
		return
	}

	routes.Success(w, OK(comment))
}

// Delete handles DELETE /api/comments/{id}. Replies go with their parent.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "delete comment")
		return
	}

	n, err := h.comments.Delete(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		fail(w, r, routes, err, "delete comment")
		return
	}

	routes.Success(w, OK(map[string]interface{}{"status": "deleted", "deleted": n}))
}

// Vote handles POST /api/comments/{id}/vote
func (h *CommentHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "vote comment")
		return
	}

	var req model.VoteCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "vote comment")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "vote comment")
		return
	}

	comment, err := h.comments.Vote(r.Context(), r.PathValue("id"), userID, *req.Delta)
	if err != nil {
		fail(w, r, routes, err, "vote comment")
		return
	}

	routes.Success(w, OK(comment))
}
