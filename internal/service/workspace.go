package service

import (
	"context"
	"strings"

	"github.com/ideahub/api/internal/model"
)

// WorkspaceRepository defines the interface for workspace storage
type WorkspaceRepository interface {
	Create(ctx context.Context, w *model.Workspace) (*model.Workspace, error)
	GetByID(ctx context.Context, id string) (*model.Workspace, error)
	List(ctx context.Context, userID string) ([]*model.Workspace, error)
	Update(ctx context.Context, id string, patch *model.WorkspacePatch) (*model.Workspace, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CollaboratorLister lists the collaborators of an idea
type CollaboratorLister interface {
	ListByIdea(ctx context.Context, ideaID string) ([]*model.Collaborator, error)
}

// WorkspaceService handles idea workspaces
type WorkspaceService struct {
	repo          WorkspaceRepository
	collaborators CollaboratorLister
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(repo WorkspaceRepository, collaborators CollaboratorLister) *WorkspaceService {
	return &WorkspaceService{repo: repo, collaborators: collaborators}
}

// Create stores a workspace with an empty document and whiteboard
func (s *WorkspaceService) Create(ctx context.Context, req model.CreateWorkspaceRequest) (*model.Workspace, error) {
	ideaID := strings.TrimSpace(req.IdeaID)
	if ideaID == "" {
		return nil, ErrIdeaIDRequired
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = model.DefaultWorkspaceName
	}

	return s.repo.Create(ctx, &model.Workspace{
		Name:       name,
		Document:   model.NewDocument(),
		Whiteboard: model.NewWhiteboard(),
		IdeaID:     ideaID,
		UserID:     userID,
	})
}

// Get returns a workspace with its idea, author and the idea's collaborators
func (s *WorkspaceService) Get(ctx context.Context, id string) (*model.Workspace, error) {
	ws, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrWorkspaceNotFound
	}

	collaborators, err := s.collaborators.ListByIdea(ctx, ws.IdeaID)
	if err != nil {
		return nil, err
	}
	ws.Collaborators = collaborators
	return ws, nil
}

// List returns workspaces newest first, limited to userID when set
func (s *WorkspaceService) List(ctx context.Context, userID string) ([]*model.Workspace, error) {
	return s.repo.List(ctx, strings.TrimSpace(userID))
}

// Update writes the supplied fields only. An empty patch returns the
// workspace unchanged.
func (s *WorkspaceService) Update(ctx context.Context, id string, req model.UpdateWorkspaceRequest) (*model.Workspace, error) {
	if req.IsEmpty() {
		return s.Get(ctx, id)
	}

	patch, err := req.Patch()
	if err != nil {
		return nil, err
	}

	ws, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

// Delete hard-deletes a workspace
func (s *WorkspaceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWorkspaceNotFound
	}
	return nil
}
