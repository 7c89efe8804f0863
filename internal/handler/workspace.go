package handler

import (
	"context"
	"net/http"

	"github.com/ideahub/api/internal/model"
)

// WorkspaceService is the workspace API used by WorkspaceHandler
type WorkspaceService interface {
	Create(ctx context.Context, req model.CreateWorkspaceRequest) (*model.Workspace, error)
	Get(ctx context.Context, id string) (*model.Workspace, error)
	List(ctx context.Context, userID string) ([]*model.Workspace, error)
	Update(ctx context.Context, id string, req model.UpdateWorkspaceRequest) (*model.Workspace, error)
	Delete(ctx context.Context, id string) error
}

// WorkspaceHandler handles /api/workspace
type WorkspaceHandler struct {
	workspaces WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaces WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// List handles GET /api/workspace
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.workspaces.List(r.Context(), query(r, "userId"))
	if err != nil {
		fail(w, r, routes, err, "list workspaces")
		return
	}
	routes.Success(w, OK(list))
}

// Create handles POST /api/workspace
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWorkspaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "create workspace")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "create workspace")
		return
	}

	ws, err := h.workspaces.Create(r.Context(), req)
	if err != nil {
		fail(w, r, routes, err, "create workspace")
		return
	}

	routes.Success(w, OK(ws))
}

// Get handles GET /api/workspace/{id}
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaces.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, routes, err, "get workspace")
		return
	}
	routes.Success(w, OK(ws))
}

// Update handles PATCH /api/workspace/{id}. Only supplied fields are written.
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateWorkspaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "update workspace")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "update workspace")
		return
	}

	ws, err := h.workspaces.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		fail(w, r, routes, err, "update workspace")
		return
	}

	routes.Success(w, OK(ws))
}

// Delete handles DELETE /api/workspace/{id}
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workspaces.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, routes, err, "delete workspace")
		return
	}
	routes.Success(w, OK(map[string]string{"status": "deleted"}))
}
