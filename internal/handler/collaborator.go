package handler

import (
	"context"
	"net/http"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// CollaboratorService is the collaborator API used by CollaboratorHandler
type CollaboratorService interface {
	List(ctx context.Context, ideaID string) (*service.CollaboratorList, error)
	Add(ctx context.Context, ideaID, callerID, userID string) (*model.Collaborator, error)
	Remove(ctx context.Context, ideaID, callerID, userID string) error
}

// CollaboratorHandler handles idea collaborators
type CollaboratorHandler struct {
	collaborators CollaboratorService
}

// NewCollaboratorHandler creates a new collaborator handler
func NewCollaboratorHandler(collaborators CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{collaborators: collaborators}
}

// List handles the collaborators-list function
func (h *CollaboratorHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, functions, http.MethodGet) {
		return
	}

	ideaID := query(r, "ideaId")
	if ideaID == "" {
		fail(w, r, functions, requireField("ideaId"), "collaborators-list")
		return
	}

	list, err := h.collaborators.List(r.Context(), ideaID)
	if err != nil {
		fail(w, r, functions, err, "collaborators-list")
		return
	}

	functions.Success(w, OK(list.Collaborators).
		With("count", list.Count).
		With("maxAllowed", list.MaxAllowed))
}

// Add handles POST /api/ideas/{id}/collaborators
func (h *CollaboratorHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "add collaborator")
		return
	}

	var req model.AddCollaboratorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "add collaborator")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "add collaborator")
		return
	}

	c, err := h.collaborators.Add(r.Context(), r.PathValue("id"), userID, req.UserID)
	if err != nil {
		fail(w, r, routes, err, "add collaborator")
		return
	}

	routes.Success(w, Created(c))
}

// Remove handles DELETE /api/ideas/{id}/collaborators/{userId}
func (h *CollaboratorHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "remove collaborator")
		return
	}

	if err := h.collaborators.Remove(r.Context(), r.PathValue("id"), userID, r.PathValue("userId")); err != nil {
		fail(w, r, routes, err, "remove collaborator")
		return
	}

	routes.Success(w, OK(map[string]string{"status": "removed"}))
}
